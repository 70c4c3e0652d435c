package form

// Input types supported by the input_field template.
const (
	TypeText     = "text"
	TypeEmail    = "email"
	TypePassword = "password"
	TypeNumber   = "number"
	TypeDate     = "date"
)

// Message is a plain-string field error.
type Message string

func (m Message) Error() string { return string(m) }

// FieldError is a structured validation failure.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// Spec describes how a registered field is presented.
type Spec struct {
	Label       string
	Type        string
	Placeholder string
}

// Field is the view model of one labeled input. Err is nil when the field
// is valid.
type Field struct {
	ID          string
	Name        string
	Type        string
	Label       string
	Placeholder string
	Value       string
	Err         error
}

// Invalid reports whether the field should render in its error state.
func (f Field) Invalid() bool { return f.Err != nil }

// ErrorText is the message shown under the input.
func (f Field) ErrorText() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// InputValue hides password values on re-render.
func (f Field) InputValue() string {
	if f.Type == TypePassword {
		return ""
	}
	return f.Value
}
