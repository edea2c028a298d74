package question

import "testing"

func TestCheckAnswer_TextInput(t *testing.T) {
	q := &Question{
		Shape:          ShapeTextInput,
		ExpectedAnswer: "Hunde",
		CorrectIndex:   -1,
	}

	tests := []struct {
		in   string
		want bool
	}{
		{"Hunde", true},
		{"  hunde  ", true},
		{"HUNDE", true},
		{"Hund", false},
		{"", false},
		{"   ", false},
	}
	for _, tc := range tests {
		if got := CheckAnswer(tc.in, q); got != tc.want {
			t.Errorf("CheckAnswer(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCheckAnswer_NumericByValue(t *testing.T) {
	q := &Question{
		Shape:          ShapeTextInput,
		ExpectedAnswer: "12",
		CorrectIndex:   -1,
	}

	tests := []struct {
		in   string
		want bool
	}{
		{"12", true},
		{"012", true},
		{"12.0", true},
		{"12,0", true},
		{"13", false},
		{"zwölf", false},
	}
	for _, tc := range tests {
		if got := CheckAnswer(tc.in, q); got != tc.want {
			t.Errorf("CheckAnswer(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCheckAnswer_GermanDecimalComma(t *testing.T) {
	q := &Question{
		Shape:          ShapeTextInput,
		ExpectedAnswer: "3.50",
		CorrectIndex:   -1,
	}
	if !CheckAnswer("3,50", q) {
		t.Fatal("the decimal comma must match the dot form")
	}
	if !CheckAnswer("3.5", q) {
		t.Fatal("trailing zeros must not matter")
	}
}

func TestCheckAnswer_MultipleChoice(t *testing.T) {
	q := &Question{
		Shape:        ShapeMultipleChoice,
		Options:      []string{"42", "36", "48"},
		CorrectIndex: 0,
	}

	tests := []struct {
		in   string
		want bool
	}{
		{"42", true},
		{"1", true}, // 1-based index of the correct option
		{"2", false},
		{"36", false},
		{"4", false}, // out of range, no option "4"
		{"", false},
	}
	for _, tc := range tests {
		if got := CheckAnswer(tc.in, q); got != tc.want {
			t.Errorf("CheckAnswer(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAnswer(t *testing.T) {
	mc := &Question{Shape: ShapeMultipleChoice, Options: []string{"a", "b"}, CorrectIndex: 1}
	if got := mc.Answer(); got != "b" {
		t.Fatalf("Answer() = %q", got)
	}

	broken := &Question{Shape: ShapeMultipleChoice, Options: []string{"a"}, CorrectIndex: 5}
	if got := broken.Answer(); got != "" {
		t.Fatalf("out-of-range index should yield empty, got %q", got)
	}

	ti := &Question{Shape: ShapeTextInput, ExpectedAnswer: "7"}
	if got := ti.Answer(); got != "7" {
		t.Fatalf("Answer() = %q", got)
	}
}

func TestNextID_Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for range 100 {
		id := NextID()
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}
