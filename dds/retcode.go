package dds

import "fmt"

// ReturnCode is the result of a DDS operation. RetcodeOK is never returned
// as an error; every other code satisfies the error interface so callers
// can test it with errors.Is.
type ReturnCode int32

const (
	RetcodeOK ReturnCode = iota
	RetcodeError
	RetcodeUnsupported
	RetcodeBadParameter
	RetcodePreconditionNotMet
	RetcodeOutOfResources
	RetcodeNotEnabled
	RetcodeImmutablePolicy
	RetcodeInconsistentPolicy
	RetcodeAlreadyDeleted
	RetcodeTimeout
	RetcodeNoData
	RetcodeIllegalOperation
)

var retcodeNames = map[ReturnCode]string{
	RetcodeOK:                 "OK",
	RetcodeError:              "ERROR",
	RetcodeUnsupported:        "UNSUPPORTED",
	RetcodeBadParameter:       "BAD_PARAMETER",
	RetcodePreconditionNotMet: "PRECONDITION_NOT_MET",
	RetcodeOutOfResources:     "OUT_OF_RESOURCES",
	RetcodeNotEnabled:         "NOT_ENABLED",
	RetcodeImmutablePolicy:    "IMMUTABLE_POLICY",
	RetcodeInconsistentPolicy: "INCONSISTENT_POLICY",
	RetcodeAlreadyDeleted:     "ALREADY_DELETED",
	RetcodeTimeout:            "TIMEOUT",
	RetcodeNoData:             "NO_DATA",
	RetcodeIllegalOperation:   "ILLEGAL_OPERATION",
}

func (r ReturnCode) String() string {
	if name, ok := retcodeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RETCODE(%d)", int32(r))
}

func (r ReturnCode) Error() string {
	return "dds: " + r.String()
}
