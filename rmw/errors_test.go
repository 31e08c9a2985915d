package rmw

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"

	"github.com/edwinhayes/rmwdds/dds"
)

func TestCode(t *testing.T) {
	assert.Equal(t, RetOK, Code(nil))
	assert.Equal(t, RetInvalidArgument, Code(invalidArgument("bad %s", "thing")))
	assert.Equal(t, RetInvalidArgument, Code(pkgerrors.Wrap(ErrAlreadyDestroyed, "client")))
	assert.Equal(t, RetIncorrectImplementation, Code(checkImplementation("node", "other")))
	assert.Equal(t, RetBadAlloc, Code(ErrBadAlloc))
	assert.Equal(t, RetTimeout, Code(ErrTimeout))
	assert.Equal(t, RetError, Code(transportError(dds.RetcodeError, "write")))
	assert.Equal(t, RetError, Code(errors.New("other")))
}

func TestIdentifierMismatchError(t *testing.T) {
	err := checkImplementation("client", "rmw_other")
	assert.True(t, errors.Is(err, ErrIncorrectImplementation))

	var mismatch *IdentifierMismatchError
	if assert.True(t, errors.As(err, &mismatch)) {
		assert.Equal(t, "client", mismatch.Handle)
		assert.Equal(t, "rmw_other", mismatch.Got)
		assert.Equal(t, Identifier, mismatch.Want)
	}
	assert.NoError(t, checkImplementation("client", Identifier))
}

func TestTransportErrorMatchesBothKinds(t *testing.T) {
	err := transportError(dds.RetcodeOutOfResources, "failed to create %s", "publisher")
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, dds.RetcodeOutOfResources))
	assert.False(t, errors.Is(err, dds.RetcodeNoData))
	assert.Contains(t, err.Error(), "failed to create publisher")

	combined := multierr.Append(err, pkgerrors.Wrap(ErrInconsistentTeardown, "reader"))
	assert.True(t, errors.Is(combined, ErrTransport))
	assert.True(t, errors.Is(combined, ErrInconsistentTeardown))
}
