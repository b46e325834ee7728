package survey

type QuestionType string

const (
	TypeSlider   QuestionType = "slider"
	TypeCheckbox QuestionType = "checkbox"
	TypeRadio    QuestionType = "radio"
	TypeText     QuestionType = "text"
)

type (
	Option struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}

	Question struct {
		ID           int          `json:"id"`
		Type         QuestionType `json:"type"`
		Name         string       `json:"name"`
		Question     string       `json:"question"`
		Label        string       `json:"label"`
		Required     bool         `json:"required"`
		ErrorMessage string       `json:"errorMessage"`
		Min          float64      `json:"min,omitempty"`
		Max          float64      `json:"max,omitempty"`
		// Invert marks reverse-coded sliders: the scored value is min+max-raw.
		Invert  bool     `json:"invert,omitempty"`
		Options []Option `json:"options,omitempty"`
	}
)

var circleOptions = []Option{
	{Value: "self", Label: "Myself"},
	{Value: "family", Label: "My family"},
	{Value: "friends", Label: "My friends"},
	{Value: "classmates", Label: "My classmates and my teacher"},
	{Value: "school", Label: "My school"},
	{Value: "community", Label: "My community"},
	{Value: "country", Label: "My country"},
	{Value: "world", Label: "The world"},
}

// Questions is the empathy survey, in display order.
var Questions = []Question{
	{
		ID: 1, Type: TypeSlider, Name: "empathy1", Required: true, Min: 1, Max: 7,
		Question:     "I can sense how others feel.",
		Label:        "Please rate your empathy on a scale of 1 to 7",
		ErrorMessage: "This field is required",
	},
	{
		ID: 2, Type: TypeSlider, Name: "empathy2", Required: true, Min: 1, Max: 7, Invert: true,
		Question:     "It is difficult for me to sense what my family think.",
		Label:        "Please rate your empathy on a scale of 1 to 7",
		ErrorMessage: "This field is required",
	},
	{
		ID: 3, Type: TypeSlider, Name: "empathy3", Required: true, Min: 1, Max: 7, Invert: true,
		Question:     "It is difficult for me to sense what my friends think.",
		Label:        "Please rate your empathy on a scale of 1 to 7",
		ErrorMessage: "This field is required",
	},
	{
		ID: 4, Type: TypeSlider, Name: "empathy4", Required: true, Min: 1, Max: 7, Invert: true,
		Question:     "It is difficult for me to sense what my neighbors think.",
		Label:        "Please rate your empathy on a scale of 1 to 7",
		ErrorMessage: "This field is required",
	},
	{
		ID: 5, Type: TypeCheckbox, Name: "empathy5", Required: true, Options: circleOptions,
		Question:     "It is important to me that (      ) are okay.",
		Label:        "Please select at least one option",
		ErrorMessage: "Please select at least one interest",
	},
	{
		ID: 6, Type: TypeRadio, Name: "empathy6", Required: true,
		Options:      []Option{{Value: "Yes", Label: "Yes"}, {Value: "No", Label: "No"}},
		Question:     "I can see situations from my friends' perspectives.",
		Label:        "Please select one option",
		ErrorMessage: "Please select an option",
	},
	{
		ID: 7, Type: TypeCheckbox, Name: "empathy7", Required: true, Options: circleOptions,
		Question:     "I can predict the needs of (      ).",
		Label:        "Please select at least one option",
		ErrorMessage: "Please select at least one interest",
	},
	{
		ID: 8, Type: TypeText, Name: "empathy8", Required: true,
		Question:     "Please write three words when you are thinking about others.",
		Label:        "It could be feelings, objects, or situations.",
		ErrorMessage: "This field is required",
	},
}

func (q Question) hasOption(v string) bool {
	for _, opt := range q.Options {
		if opt.Value == v {
			return true
		}
	}
	return false
}
