package results

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	// ErrPathNotFound means the configured results path does not exist.
	ErrPathNotFound = errors.New("results path not found")

	// ErrPathNotReadable means the path exists but a representative read
	// operation failed, typically a permission problem.
	ErrPathNotReadable = errors.New("results path not readable")

	// ErrInvalidPathType means the path is neither a regular file nor a
	// directory (e.g. a device or socket).
	ErrInvalidPathType = errors.New("results path is not a regular file or directory")
)

// ValidatePath confirms the results path exists, is a regular file or
// directory, and is readable. Checks run in that order so a missing path is
// never reported as a permission problem.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrPathNotReadable, path, err)
	}

	switch {
	case info.Mode().IsRegular():
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrPathNotReadable, path, err)
		}
		_ = f.Close()
	case info.IsDir():
		if _, err := os.ReadDir(path); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrPathNotReadable, path, err)
		}
	default:
		return fmt.Errorf("%w: %s (%s)", ErrInvalidPathType, path, info.Mode().Type())
	}
	return nil
}
