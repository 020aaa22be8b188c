// Command raeconv prints the range, azimuth and elevation of a target seen
// from a reference point. Values not given as flags are asked on stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterbourgon/ff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/rae-server/enu"
	"github.com/a-bouts/rae-server/rae"
)

type input struct {
	name   string
	prompt string
	value  string
}

func main() {
	fs := flag.NewFlagSet("raeconv", flag.ExitOnError)
	inputs := []*input{
		{name: "ref-lat", prompt: "Enter the reference latitude: "},
		{name: "ref-lon", prompt: "Enter the reference longitude: "},
		{name: "ref-alt", prompt: "Enter the reference altitude (in meters): "},
		{name: "tgt-lat", prompt: "Enter the target latitude: "},
		{name: "tgt-lon", prompt: "Enter the target longitude: "},
		{name: "tgt-alt", prompt: "Enter the target altitude (in meters): "},
	}
	for _, in := range inputs {
		fs.StringVar(&in.value, in.name, "", strings.TrimSuffix(strings.TrimPrefix(in.prompt, "Enter the "), ": "))
	}
	deg := fs.Bool("deg", false, "print azimuth and elevation in degrees")
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("RAECONV")); err != nil {
		log.Fatal(err)
	}

	values, err := collect(inputs, bufio.NewReader(os.Stdin), os.Stdout)
	if err != nil {
		log.Fatal(err)
	}

	out, err := run(values, *deg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Print(out)
}

// collect parses each input, asking on r for the ones left empty.
func collect(inputs []*input, r *bufio.Reader, w io.Writer) ([6]float64, error) {
	var values [6]float64
	for i, in := range inputs {
		s := in.value
		if s == "" {
			fmt.Fprint(w, in.prompt)
			line, err := r.ReadString('\n')
			if err != nil && (err != io.EOF || line == "") {
				return values, errors.Wrapf(err, "reading %s", in.name)
			}
			s = line
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return values, errors.Wrapf(err, "parsing %s", in.name)
		}
		values[i] = v
	}
	return values, nil
}

func run(v [6]float64, deg bool) (string, error) {
	n, e, u, err := enu.GeodeticToENU(v[0], v[1], v[2], v[3], v[4], v[5])
	if err != nil {
		return "", err
	}
	m := rae.FromOffset(enu.Offset{North: n, East: e, Up: u})

	var b strings.Builder
	fmt.Fprintf(&b, "Range = %v m\n", m.Range)
	if deg {
		fmt.Fprintf(&b, "Azimuth = %v deg\n", m.AzimuthDeg())
		fmt.Fprintf(&b, "Elevation = %v deg\n", m.ElevationDeg())
	} else {
		fmt.Fprintf(&b, "Azimuth = %v rad\n", m.Azimuth)
		fmt.Fprintf(&b, "Elevation = %v rad\n", m.Elevation)
	}
	return b.String(), nil
}
