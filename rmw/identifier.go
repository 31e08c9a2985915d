package rmw

// Identifier names this middleware implementation. Every handle created
// here carries it, and every operation rejects handles that carry anything
// else.
const Identifier = "rmw_dds_go"

func checkImplementation(handle string, got string) error {
	if got != Identifier {
		return &IdentifierMismatchError{Handle: handle, Got: got, Want: Identifier}
	}
	return nil
}
