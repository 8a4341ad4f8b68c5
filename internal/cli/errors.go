package cli

import "fmt"

type treeFileNotFoundError struct {
	path string
}

func (e treeFileNotFoundError) Error() string {
	return fmt.Sprintf("tree file not found: %s (run `treeedit init %s` first)", e.path, e.path)
}

func errTreeFileNotFound(path string) error {
	return treeFileNotFoundError{path: path}
}

type badPathError struct {
	path string
	err  error
}

func (e badPathError) Error() string {
	return fmt.Sprintf("no node at path %q: %v", e.path, e.err)
}

func (e badPathError) Unwrap() error { return e.err }
