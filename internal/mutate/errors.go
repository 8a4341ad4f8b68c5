package mutate

import "fmt"

type UnknownActionError struct {
	Action string
}

func (e UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action: %q (expected add-sibling|add-child|delete)", e.Action)
}
