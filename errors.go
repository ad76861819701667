package stride

import "fmt"

// Message templates for configuration, demographic, and assembly errors,
// wrapped with github.com/pkg/errors at the call site to add file/key
// context, mirroring the teacher's flat const-template idiom.
const (
	InvalidFloatParameterError  = "invalid %s %f, %s"
	InvalidIntParameterError    = "invalid %s %d, %s"
	InvalidStringParameterError = "invalid %s %s, %s"
	UnrecognizedKeywordError    = "%s is not a recognized value for %s"
	MissingRequiredKeyError     = "missing required key %q in %s"
	FileDoesNotExistError       = "file %s does not exist"

	UnequalFloatParameterError  = "expected %s %f, instead got %f"
	UnequalIntParameterError    = "expected %s %d, instead got %d"
	UnequalStringParameterError = "expected %s %s, instead got %s"
	UnexpectedErrorWhileError   = "encountered error while %s: %s"
)

// SampleApartInfeasibleError reports that rejection sampling could not
// satisfy the requested span/gap/count constraints after the retry budget
// was exhausted.
func SampleApartInfeasibleError(lo, hi, gapMin, gapMax, count int) error {
	return fmt.Errorf("SampleApart: could not sample %d values from [%d, %d] "+
		"with adjacent gap in [%d, %d] after 100 tries", count, lo, hi, gapMin, gapMax)
}

// ClusterReferenceOutOfRangeError reports a person referencing a cluster id
// outside the range allocated during assembly.
func ClusterReferenceOutOfRangeError(kindName string, id, max int) error {
	return fmt.Errorf("person references %s cluster id %d, outside allocated range [0, %d]", kindName, id, max)
}

// FileAlreadyExistsError reports that NewFile was asked to create a file
// that is already present on disk.
func FileAlreadyExistsError(path string) error {
	return fmt.Errorf("%s already exists", path)
}
