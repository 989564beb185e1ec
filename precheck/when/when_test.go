package when

import (
	"errors"
	"testing"
)

func TestEvalStatement(t *testing.T) {
	facts := map[string]func() (bool, error){
		"yes": func() (bool, error) { return true, nil },
		"no":  func() (bool, error) { return false, nil },
		"broken": func() (bool, error) {
			return false, errors.New("broken fact")
		},
	}

	tests := []struct {
		name      string
		statement string
		want      bool
		wantErr   bool
	}{
		{name: "Empty statement", statement: "", want: true},
		{name: "True fact", statement: "yes", want: true},
		{name: "False fact", statement: "no", want: false},
		{name: "Negated false fact", statement: "not no", want: true},
		{name: "Negated true fact", statement: "not yes", want: false},
		{name: "Unknown fact", statement: "maybe", wantErr: true},
		{name: "Failing fact", statement: "broken", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvalStatement(tt.statement, facts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EvalStatement() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("EvalStatement() = %v, want %v", got, tt.want)
			}
		})
	}
}
