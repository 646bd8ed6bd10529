package valueobjects

import "fmt"

type ThreadType string

const (
	TypeGeneral    ThreadType = "general"
	TypeAcademic   ThreadType = "academic"
	TypeTechnical  ThreadType = "technical"
	TypeComplaint  ThreadType = "complaint"
	TypeSuggestion ThreadType = "suggestion"
)

// DefaultThreadType applies when a thread is created without a type.
const DefaultThreadType = TypeGeneral

var validThreadTypes = map[ThreadType]bool{
	TypeGeneral:    true,
	TypeAcademic:   true,
	TypeTechnical:  true,
	TypeComplaint:  true,
	TypeSuggestion: true,
}

func (t ThreadType) String() string {
	return string(t)
}

func (t ThreadType) IsValid() bool {
	return validThreadTypes[t]
}

func NewThreadType(s string) (ThreadType, error) {
	t := ThreadType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid thread type: %s", s)
	}
	return t, nil
}
