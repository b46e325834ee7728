package interest

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/thinkmate/thinkmate/core"
)

func TestLevel_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want Level
	}{
		{`7`, 7},
		{`7.5`, 7.5},
		{`"8"`, 8},
		{`" 3 "`, 3},
		{`"abc"`, 0},
		{`""`, 0},
		{`null`, 0},
		{`true`, 1},
		{`false`, 0},
		{`{}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var in Interest
			err := json.Unmarshal([]byte(`{"level":`+tt.raw+`}`), &in)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, in.Level)
		})
	}
}

func TestNewInterest_Validate(t *testing.T) {
	validate := validator.New()
	uni := ut.New(en.New())
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	tests := []struct {
		name    string
		in      NewInterest
		wantErr bool
	}{
		{name: "valid", in: NewInterest{StudentID: "s1", Field: " AI ", Level: 8, SocialImpact: "high"}},
		{name: "valid color", in: NewInterest{StudentID: "s1", Field: "AI", Level: 1, SocialImpact: "Medium", Color: "abc"}},
		{name: "blank field", in: NewInterest{StudentID: "s1", Field: "  ", Level: 8, SocialImpact: "HIGH"}, wantErr: true},
		{name: "level too high", in: NewInterest{StudentID: "s1", Field: "AI", Level: 11, SocialImpact: "HIGH"}, wantErr: true},
		{name: "level missing", in: NewInterest{StudentID: "s1", Field: "AI", SocialImpact: "HIGH"}, wantErr: true},
		{name: "unknown impact", in: NewInterest{StudentID: "s1", Field: "AI", Level: 3, SocialImpact: "huge"}, wantErr: true},
		{name: "bad color", in: NewInterest{StudentID: "s1", Field: "AI", Level: 3, SocialImpact: "LOW", Color: "#12"}, wantErr: true},
		{name: "no student", in: NewInterest{Field: "AI", Level: 3, SocialImpact: "LOW"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewInterest_Validate_cleans(t *testing.T) {
	validate := validator.New()
	uni := ut.New(en.New())
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	ni := NewInterest{StudentID: " s1 ", Field: "  Climate ", Level: 4, SocialImpact: " moderate "}
	assert.NoError(t, ni.Validate(validate))
	assert.Equal(t, "s1", ni.StudentID)
	assert.Equal(t, "Climate", ni.Field)
	assert.Equal(t, ImpactModerate, ni.SocialImpact)
}

func TestQueryFilter_Clean(t *testing.T) {
	qf := QueryFilter{StudentIDs: []string{"a, b", " ", "c"}, Field: " AI "}
	qf.Clean()
	assert.Equal(t, []string{"a", "b", "c"}, qf.StudentIDs)
	assert.Equal(t, "AI", qf.Field)
}
