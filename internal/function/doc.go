// internal/function/doc.go
package function

// Doc is the externally consumed description of a function.
type Doc struct {
	Identifier string         `json:"identifier" yaml:"identifier"`
	Summary    string         `json:"summary" yaml:"summary"`
	Parameters []ParameterDoc `json:"parameters" yaml:"parameters"`
	Examples   []ExampleDoc   `json:"examples" yaml:"examples"`
}

// ParameterDoc describes one parameter.
type ParameterDoc struct {
	Keyword     string `json:"keyword" yaml:"keyword"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ExampleDoc is one {title, source, expected result or error} entry.
type ExampleDoc struct {
	Title  string `json:"title" yaml:"title"`
	Source string `json:"source" yaml:"source"`
	Result string `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Document describes fn, keeping parameter and example order.
func Document(fn Function) Doc {
	params := fn.Parameters()
	examples := fn.Examples()

	doc := Doc{
		Identifier: fn.Identifier(),
		Summary:    fn.Summary(),
		Parameters: make([]ParameterDoc, len(params)),
		Examples:   make([]ExampleDoc, len(examples)),
	}
	for i, p := range params {
		doc.Parameters[i] = ParameterDoc{
			Keyword:     p.Keyword,
			Type:        p.Kind.String(),
			Required:    p.Required,
			Description: p.Description,
		}
	}
	for i, e := range examples {
		doc.Examples[i] = ExampleDoc{
			Title:  e.Title,
			Source: e.Source,
			Result: e.Result,
			Error:  e.Error,
		}
	}
	return doc
}
