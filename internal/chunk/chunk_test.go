package chunk

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlannerCoversWholeFileNoOverlap(t *testing.T) {
	data := []byte("a;1.0\nbb;2.0\nccc;3.0\ndddd;4.0\neeeee;5.0\n")
	for _, workers := range []int{1, 2, 3, 4, 8} {
		ranges, err := Planner{}.Plan(data, workers)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if ranges[0].Start != 0 {
			t.Fatalf("workers=%d: first range doesn't start at 0", workers)
		}
		if ranges[len(ranges)-1].End != len(data) {
			t.Fatalf("workers=%d: last range doesn't end at len(data)", workers)
		}
		for i := 1; i < len(ranges); i++ {
			if ranges[i].Start != ranges[i-1].End {
				t.Fatalf("workers=%d: gap/overlap between range %d and %d", workers, i-1, i)
			}
		}
		for i, r := range ranges {
			if r.Start == r.End {
				continue
			}
			if data[r.End-1] != '\n' {
				t.Fatalf("workers=%d range %d doesn't end on '\\n'", workers, i)
			}
		}
	}
}

func TestStreamSplitterReassemblesInput(t *testing.T) {
	input := strings.Repeat("station;1.2\n", 1000)
	s := NewStreamSplitter(strings.NewReader(input), 64)
	out := make(chan []byte)
	errc := make(chan error, 1)
	go func() { errc <- s.Run(out) }()

	var got []byte
	for chunk := range out {
		if len(chunk) > 0 && chunk[len(chunk)-1] != '\n' {
			t.Errorf("non-final chunk doesn't end in newline")
		}
		got = append(got, chunk...)
	}
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte(input)) {
		t.Fatalf("reassembled input mismatch: got %d bytes, want %d", len(got), len(input))
	}
}

func TestStreamSplitterHandlesMissingFinalNewline(t *testing.T) {
	input := "a;1.0\nb;2.0\nc;3.0"
	s := NewStreamSplitter(strings.NewReader(input), 4096)
	out := make(chan []byte)
	errc := make(chan error, 1)
	go func() { errc <- s.Run(out) }()

	var got []byte
	for chunk := range out {
		got = append(got, chunk...)
	}
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
	if string(got) != input {
		t.Fatalf("got %q, want %q", got, input)
	}
}
