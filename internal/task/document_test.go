package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRoundTrip(t *testing.T) {
	r := record("dishes", StatusInProgress, at(noon))
	r.Assignee = "Sam"
	r.Frequency = FrequencyWeekly
	r.CompletionPercent = 0.5
	r.ReminderSet = true

	got, err := ToDocument(r).Record()
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestDocumentDefaults(t *testing.T) {
	d := ToDocument(record("dishes", StatusToDo, nil))
	d.Frequency = nil
	d.Details = nil
	d.CompletionPercent = nil
	d.ReminderSet = nil

	got, err := d.Record()
	require.NoError(t, err)
	assert.Equal(t, FrequencyNone, got.Frequency)
	assert.Empty(t, got.Details)
	assert.Empty(t, got.Assignee)
	assert.Nil(t, got.DueDate)
}

func TestDocumentMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Document)
	}{
		{"missing id", func(d *Document) { d.ID = nil }},
		{"missing title", func(d *Document) { d.Title = nil }},
		{"empty title", func(d *Document) { d.Title = ptr("") }},
		{"missing status", func(d *Document) { d.Status = nil }},
		{"missing priority", func(d *Document) { d.Priority = nil }},
		{"missing createdAt", func(d *Document) { d.CreatedAt = nil }},
		{"bad status", func(d *Document) { d.Status = ptr("Blocked") }},
		{"bad frequency", func(d *Document) { d.Frequency = ptr("Yearly") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ToDocument(record("dishes", StatusToDo, nil))
			tt.mutate(&d)
			_, err := d.Record()
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
