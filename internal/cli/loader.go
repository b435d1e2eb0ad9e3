package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/soundlane/renderplan/internal/timeline"
)

// Error codes for load failures.
const (
	ErrCodeNotFound    = "E001" // project directory missing or not a directory
	ErrCodeNoFiles     = "E002" // no CUE files found
	ErrCodeLoadFailed  = "E003" // CUE instance loading failed
	ErrCodeBuildFailed = "E004" // CUE value building failed
	ErrCodeBadProject  = "E005" // project field missing or malformed
	ErrCodeGeneric     = "E999"
)

// LoadError describes a project loading failure with a stable code.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadProject loads a project document from a directory of CUE files.
//
// The CUE value must carry a top-level `project` field matching
// timeline.ProjectDoc. Files unify in CUE's usual way, so a project can
// be split across multiple files (tracks in one, shared bus config in
// another).
func LoadProject(dir string) (*timeline.Project, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("project directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing project directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	projectVal := value.LookupPath(cue.ParsePath("project"))
	if !projectVal.Exists() {
		return nil, &LoadError{Code: ErrCodeBadProject, Message: "no `project` field found in CUE files"}
	}

	var doc timeline.ProjectDoc
	if err := projectVal.Decode(&doc); err != nil {
		return nil, &LoadError{Code: ErrCodeBadProject, Message: fmt.Sprintf("decoding project: %v", err)}
	}
	project, err := doc.Project()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadProject, Message: err.Error()}
	}
	return project, nil
}

// findCUEFiles collects .cue files directly in dir (not recursive; CUE's
// own loader handles package structure).
func findCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".cue") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
