package tasks

import (
	"fmt"

	tasksapi "google.golang.org/api/tasks/v1"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// Remote bookkeeping fields carried into records alongside the domain fields.
const (
	fieldKind        = "kind"
	fieldEtag        = "etag"
	fieldSelfLink    = "selfLink"
	fieldWebViewLink = "webViewLink"
)

// TaskListToRecord converts a task list to a category record.
// Empty values are omitted, as the API omits them.
func TaskListToRecord(list *tasksapi.TaskList) domain.Record {
	fields := domain.Fields{}
	putString(fields, fieldKind, list.Kind)
	putString(fields, fieldEtag, list.Etag)
	putString(fields, domain.FieldTitle, list.Title)
	putString(fields, domain.FieldUpdated, list.Updated)
	putString(fields, fieldSelfLink, list.SelfLink)
	return domain.NewRecord(list.Id, fields)
}

// TaskToRecord converts a task to a task record.
// Empty values and false flags are omitted, as the API omits them.
func TaskToRecord(task *tasksapi.Task) domain.Record {
	fields := domain.Fields{}
	putString(fields, fieldKind, task.Kind)
	putString(fields, fieldEtag, task.Etag)
	putString(fields, domain.FieldTitle, task.Title)
	putString(fields, domain.FieldUpdated, task.Updated)
	putString(fields, fieldSelfLink, task.SelfLink)
	putString(fields, domain.FieldParent, task.Parent)
	putString(fields, domain.FieldPosition, task.Position)
	putString(fields, domain.FieldNotes, task.Notes)
	putString(fields, domain.FieldStatus, task.Status)
	putString(fields, domain.FieldDue, task.Due)
	putString(fields, fieldWebViewLink, task.WebViewLink)
	if task.Completed != nil {
		fields[domain.FieldCompleted] = domain.StringValue(*task.Completed)
	}
	if task.Deleted {
		fields[domain.FieldDeleted] = domain.BoolValue(true)
	}
	if task.Hidden {
		fields[domain.FieldHidden] = domain.BoolValue(true)
	}
	return domain.NewRecord(task.Id, fields)
}

// FieldsToTask builds a task payload for insert or patch.
// Null values clear the field remotely; unsupported fields are rejected.
func FieldsToTask(fields domain.Fields) (*tasksapi.Task, error) {
	task := &tasksapi.Task{}
	for _, key := range fields.Keys() {
		v := fields[key]
		str, _ := v.Str()
		switch key {
		case domain.FieldTitle:
			task.Title = str
			task.ForceSendFields = append(task.ForceSendFields, "Title")
		case domain.FieldNotes:
			if v.IsNull() {
				task.NullFields = append(task.NullFields, "Notes")
				continue
			}
			task.Notes = str
			task.ForceSendFields = append(task.ForceSendFields, "Notes")
		case domain.FieldDue:
			if v.IsNull() {
				task.NullFields = append(task.NullFields, "Due")
				continue
			}
			task.Due = str
		case domain.FieldStatus:
			task.Status = str
		case domain.FieldCompleted:
			if v.IsNull() {
				task.NullFields = append(task.NullFields, "Completed")
				continue
			}
			task.Completed = &str
		case domain.FieldDeleted:
			task.Deleted, _ = v.Bool()
			task.ForceSendFields = append(task.ForceSendFields, "Deleted")
		case domain.FieldHidden:
			task.Hidden, _ = v.Bool()
			task.ForceSendFields = append(task.ForceSendFields, "Hidden")
		default:
			return nil, fmt.Errorf("%w: field %q cannot be written", domain.ErrInvalidInput, key)
		}
	}
	return task, nil
}

func putString(fields domain.Fields, key, value string) {
	if value != "" {
		fields[key] = domain.StringValue(value)
	}
}
