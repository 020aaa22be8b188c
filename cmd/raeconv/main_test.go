package main

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/a-bouts/rae-server/latlon"
)

func newInputs(values ...string) []*input {
	names := []string{"ref-lat", "ref-lon", "ref-alt", "tgt-lat", "tgt-lon", "tgt-alt"}
	inputs := make([]*input, len(names))
	for i, n := range names {
		inputs[i] = &input{name: n, prompt: n + "? "}
		if i < len(values) {
			inputs[i].value = values[i]
		}
	}
	return inputs
}

func TestCollectPrompts(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("0\n0\n1000\n"))

	v, err := collect(newInputs("0", "0", "0"), r, &out)
	if err != nil {
		t.Fatal(err)
	}
	if v != [6]float64{0, 0, 0, 0, 0, 1000} {
		t.Errorf("collect() = %v", v)
	}
	if out.String() != "tgt-lat? tgt-lon? tgt-alt? " {
		t.Errorf("prompts = %q", out.String())
	}
}

func TestCollectLastLineWithoutNewline(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("12.5"))
	v, err := collect(newInputs("1", "2", "3", "4", "5"), r, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if v[5] != 12.5 {
		t.Errorf("tgt-alt = %f; want 12.5", v[5])
	}
}

func TestCollectErrors(t *testing.T) {
	if _, err := collect(newInputs("x"), bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}); err == nil {
		t.Error("collect(x) succeeded")
	}
	if _, err := collect(newInputs("1"), bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}); err == nil {
		t.Error("collect with empty stdin succeeded")
	}
}

func TestRun(t *testing.T) {
	out, err := run([6]float64{0, 0, 0, 0, 0, 1000}, false)
	if err != nil {
		t.Fatal(err)
	}
	want := "Range = 1000 m\nAzimuth = 0 rad\nElevation = 1.5707963267948966 rad\n"
	if out != want {
		t.Errorf("run() = %q; want %q", out, want)
	}

	out, err = run([6]float64{0, 0, 0, 0, 0, 1000}, true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Elevation = 90 deg") {
		t.Errorf("run(deg) = %q; want elevation 90 deg", out)
	}
}

func TestRunInvalidLatitude(t *testing.T) {
	if _, err := run([6]float64{91, 0, 0, 0, 0, 0}, false); !errors.Is(err, latlon.ErrInvalidInput) {
		t.Errorf("run(lat 91) error = %v; want ErrInvalidInput", err)
	}
}
