package quest

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrInvalidContent is matched by every ContentError.
	ErrInvalidContent = errors.New("invalid quest content")
)

// NotFoundError reports a key that has no quest, category, tag or objective.
// It is a content error: the caller referenced something the data does not define.
type NotFoundError struct {
	Kind string // quest, category, tag, objective
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ContentError reports malformed quest data.
type ContentError struct {
	QuestKey    string
	ObjectiveID *int
	Reason      string
}

func (e *ContentError) Error() string {
	switch {
	case e.QuestKey != "" && e.ObjectiveID != nil:
		return fmt.Sprintf("quest %q objective %d: %s", e.QuestKey, *e.ObjectiveID, e.Reason)
	case e.QuestKey != "":
		return fmt.Sprintf("quest %q: %s", e.QuestKey, e.Reason)
	default:
		return e.Reason
	}
}

func (e *ContentError) Is(target error) bool {
	return target == ErrInvalidContent
}

func objectiveContentError(questKey string, id int, format string, args ...any) *ContentError {
	return &ContentError{QuestKey: questKey, ObjectiveID: &id, Reason: fmt.Sprintf(format, args...)}
}

func questContentError(questKey string, format string, args ...any) *ContentError {
	return &ContentError{QuestKey: questKey, Reason: fmt.Sprintf(format, args...)}
}

func objectiveKey(questKey string, id int) string {
	return fmt.Sprintf("%s#%d", questKey, id)
}
