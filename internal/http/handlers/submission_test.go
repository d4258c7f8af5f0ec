package handlers

import (
	"errors"
	"testing"
)

func TestDecodeSubmissionPrefersTopLevelIDs(t *testing.T) {
	sub, err := decodeSubmission(newValidator(), map[string]any{
		"userId":     "u1",
		"courseCode": "EE2101",
		"questionId": "top",
		"inputBundle": map[string]any{
			"questionId":    "inner",
			"version_uuid":  "v-1",
			"correctAnswer": "5 ohms",
			"rubric":        map[string]any{"keywords": []any{"a"}},
			"rubrics":       "use ohm's law",
		},
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.QuestionID != "top" {
		t.Fatalf("question id: got=%q", sub.QuestionID)
	}
	if sub.QuestionVersionUUID != "v-1" {
		t.Fatalf("version uuid: got=%q", sub.QuestionVersionUUID)
	}
	if len(sub.AnswerKey) != 1 || sub.AnswerKey[0] != "5 ohms" {
		t.Fatalf("correctAnswer should fill the answer key: %v", sub.AnswerKey)
	}
	if sub.Rubric["text"] != "use ohm's law" {
		t.Fatalf("rubrics should win over rubric: %v", sub.Rubric)
	}
}

func TestDecodeSubmissionAnswerKeyArray(t *testing.T) {
	sub, err := decodeSubmission(newValidator(), map[string]any{
		"userId": "u1", "courseCode": "EE2101",
		"inputBundle": map[string]any{"answerKey": []any{"5", 5.5, " "}},
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sub.AnswerKey) != 2 || sub.AnswerKey[0] != "5" || sub.AnswerKey[1] != "5.5" {
		t.Fatalf("unexpected answer key: %v", sub.AnswerKey)
	}
}

func TestDecodeSubmissionFieldErrors(t *testing.T) {
	_, err := decodeSubmission(newValidator(), map[string]any{"inputBundle": map[string]any{}})
	var fe fieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected fieldErrors, got %T %v", err, err)
	}
	if len(fe) != 2 {
		t.Fatalf("expected userId and courseCode errors, got %v", fe)
	}
}

func TestSnakeToCamel(t *testing.T) {
	cases := map[string]string{
		"user_id":               "userId",
		"question_version_uuid": "questionVersionUuid",
		"userId":                "userId",
		"file":                  "file",
	}
	for in, want := range cases {
		if got := snakeToCamel(in); got != want {
			t.Fatalf("snakeToCamel(%q)=%q want %q", in, got, want)
		}
	}
}
