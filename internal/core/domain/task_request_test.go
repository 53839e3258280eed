package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestComposeNotes(t *testing.T) {
	assert.Equal(t, "Only Philz please\n\nEstimated Duration: 10 minutes", ComposeNotes("Only Philz please", intPtr(10)))
	assert.Equal(t, "Feed me please", ComposeNotes("Feed me please", nil))
}

func TestCreateTaskRequest_ParentFields(t *testing.T) {
	req := CreateTaskRequest{
		Title:       "Get the coffee",
		Description: "Only Philz please",
		Category:    "Urgent",
		DueDate:     "2019-06-26T00:00:00.000Z",
	}

	f := req.ParentFields()
	assert.Equal(t, "Get the coffee", f.String(FieldTitle))
	assert.Equal(t, "Only Philz please\n\nEstimated Duration: 0 minutes", f.String(FieldNotes))
	assert.Equal(t, "2019-06-26T00:00:00.000Z", f.String(FieldDue))
}

func TestActionSpec_Fields(t *testing.T) {
	tests := []struct {
		name  string
		spec  ActionSpec
		notes string
	}{
		{
			name:  "absent duration omits annotation",
			spec:  ActionSpec{Title: "I am child #1", Description: "Feed me please"},
			notes: "Feed me please",
		},
		{
			name:  "zero duration omits annotation",
			spec:  ActionSpec{Title: "c", Description: "d", EstimatedDuration: intPtr(0)},
			notes: "d",
		},
		{
			name:  "duration appended",
			spec:  ActionSpec{Title: "I am child #2", Description: "Feed me plz", EstimatedDuration: intPtr(30)},
			notes: "Feed me plz\n\nEstimated Duration: 30 minutes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.spec.Fields()
			assert.Equal(t, tt.notes, f.String(FieldNotes))
			_, hasDue := f[FieldDue]
			assert.False(t, hasDue)
		})
	}
}

func TestDecodeTaskRequest(t *testing.T) {
	raw := `{
		"type": "create",
		"title": "I am the parent.",
		"description": "My children will follow.",
		"category": "Family",
		"dueDate": "2019-06-27T00:00:00.000Z",
		"estimatedDuration": 30,
		"actions": [
			{"id": 12345, "title": "I am child #1", "description": "Feed me please", "dueDate": "2019-06-28T00:00:00.000Z"},
			{"id": 1234567890, "title": "I am child #2", "description": "Feed me plz", "estimatedDuration": 30}
		]
	}`

	req, err := DecodeTaskRequest([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Family", req.Category)
	assert.Equal(t, 30, req.EstimatedDuration)
	require.Len(t, req.Actions, 2)
	assert.Nil(t, req.Actions[0].EstimatedDuration)
	require.NotNil(t, req.Actions[1].EstimatedDuration)
	assert.NoError(t, req.Validate())
}

func TestDecodeTaskRequest_RejectsUnknownType(t *testing.T) {
	tests := []string{
		`{"type":"update","title":"x","category":"y"}`,
		`{"title":"x","category":"y"}`,
		`not json`,
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := DecodeTaskRequest([]byte(raw))
			assert.ErrorIs(t, err, ErrInputContract)
		})
	}
}

func TestCreateTaskRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  CreateTaskRequest
		err  error
	}{
		{"valid", CreateTaskRequest{Title: "t", Category: "c"}, nil},
		{"missing title", CreateTaskRequest{Category: "c"}, ErrInvalidInput},
		{"missing category", CreateTaskRequest{Title: "t"}, ErrInvalidInput},
		{"negative duration", CreateTaskRequest{Title: "t", Category: "c", EstimatedDuration: -1}, ErrInvalidInput},
		{"action without title", CreateTaskRequest{Title: "t", Category: "c", Actions: []ActionSpec{{}}}, ErrInvalidInput},
		{"wrong type", CreateTaskRequest{Type: "delete", Title: "t", Category: "c"}, ErrInputContract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTaskUpdateRequest(t *testing.T) {
	assert.ErrorIs(t, TaskUpdateRequest{TaskID: "t"}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, TaskUpdateRequest{CategoryID: "c", TaskID: "t", Actions: []ActionPatch{{}}}.Validate(), ErrInvalidInput)

	title := "No more coffee!"
	empty := ""
	f := PatchFields(&title, &empty, nil)
	assert.Equal(t, Fields{FieldTitle: StringValue(title)}, f)
}
