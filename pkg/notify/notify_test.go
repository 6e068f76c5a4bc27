package notify

import "testing"

func TestSplitSubjectBody(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantSubject string
		wantBody    string
	}{
		{
			name:        "labeled subject",
			text:        "Subject: Weekly Update\n\nHere are the highlights.",
			wantSubject: "Weekly Update",
			wantBody:    "Here are the highlights.",
		},
		{
			name:        "label is case-insensitive",
			text:        "SUBJECT:   Planning notes\n\nBody text.",
			wantSubject: "Planning notes",
			wantBody:    "Body text.",
		},
		{
			name:        "no label",
			text:        "Team offsite\n\nSee you there.",
			wantSubject: "Team offsite",
			wantBody:    "See you there.",
		},
		{
			name:        "no blank line means no body",
			text:        "Just one line",
			wantSubject: "Just one line",
			wantBody:    "",
		},
		{
			name:        "body keeps its own paragraphs",
			text:        "Subject: Recap\n\nFirst paragraph.\n\nSecond paragraph.",
			wantSubject: "Recap",
			wantBody:    "First paragraph.\n\nSecond paragraph.",
		},
		{
			name:        "label only mid-text is kept",
			text:        "Notes\n\nSubject: not a header here",
			wantSubject: "Notes",
			wantBody:    "Subject: not a header here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := SplitSubjectBody(tt.text)
			if subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", subject, tt.wantSubject)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}
