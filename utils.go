package stride

import "os"

// Exists reports whether a path exists on disk, following the teacher's
// os.Stat-based helper in logger.go.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// NewFile creates a new file at path and writes b to it. Returns an error
// if the file already exists.
func NewFile(path string, b []byte) error {
	if exists, _ := Exists(path); exists {
		return FileAlreadyExistsError(path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(b); err != nil {
		return err
	}
	return f.Sync()
}

// AppendToFile creates a new file at path if it does not exist, or
// appends to the end of an existing one.
func AppendToFile(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(b); err != nil {
		return err
	}
	return f.Sync()
}
