package runtime

import (
	qerrors "github.com/sambeau/quest/pkg/quest/errors"
)

// newMissingAttributeError creates a KeyError for key absent from o's chain.
func newMissingAttributeError(o *Object, key Key) *qerrors.QuestError {
	return qerrors.NewMissingAttribute(KeyName(key), o.String(), o.chainKeyNames())
}

// newNotCallableError creates a TypeError for calling something with no `()`.
func newNotCallableError(o *Object) *qerrors.QuestError {
	return qerrors.New("TYPE-0002", map[string]any{"Got": o.TypeName()})
}

// newTypeError creates a TypeError naming the expected type and the actual one.
func newTypeError(function, expected string, got *Object) *qerrors.QuestError {
	return qerrors.NewTypeError(function, expected, got.TypeName())
}

// newConversionResultError is raised when a conversion attribute returns the
// wrong type.
func newConversionResultError(conv Literal, expected string, got *Object) *qerrors.QuestError {
	return qerrors.New("TYPE-0003", map[string]any{
		"Function": string(conv),
		"Expected": expected,
		"Got":      got.TypeName(),
	})
}

func newParentDepthError(o *Object, limit int) *qerrors.QuestError {
	return qerrors.New("VALUE-0004", map[string]any{
		"Object": o.String(),
		"Limit":  limit,
	})
}

func newStackDepthError(limit int) *qerrors.QuestError {
	return qerrors.New("VALUE-0003", map[string]any{"Limit": limit})
}

func newReadOnlyError(key Literal) *qerrors.QuestError {
	return qerrors.Messaged("attribute %s is read-only", key)
}

func newInvalidValueError(function string, value *Object) *qerrors.QuestError {
	return qerrors.New("VALUE-0001", map[string]any{
		"Function": function,
		"Value":    value.String(),
	})
}

func newConversionError(value *Object, target string) *qerrors.QuestError {
	return qerrors.New("VALUE-0005", map[string]any{
		"Value":  value.String(),
		"Target": target,
	})
}

func newIndexError(index, length int) *qerrors.QuestError {
	return qerrors.New("KEY-0002", map[string]any{"Index": index, "Len": length})
}

func newSliceError(start, stop, length int) *qerrors.QuestError {
	return qerrors.New("KEY-0004", map[string]any{"Start": start, "Stop": stop, "Len": length})
}
