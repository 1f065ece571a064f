// Package ztest runs formulaic tests ("ztests") of functions.  Each test
// calls one function on one input array and checks the output or error.
//
// A ztest is defined in a YAML file.
//
//	call: array_any_value
//
//	input-type: list<int64>
//
//	input: |
//	  [[null, 3, 5], [], null, [7]]
//
//	output-type: int64
//
//	output: |
//	  [3, null, null, 7]
//
// Input is a JSON array of values of input-type (see package arrowtype for
// type syntax), which is passed to the function as a single array argument.
// The expected output is a JSON array and is compared with the actual
// output after both are compacted.  If output-type is present, the type
// resolved by the function for input-type is checked against it.
//
// Instead of an output, a test may give the expected error message in
// error.  Planning errors (from type resolution) and execution errors are
// both reported there.
//
// Ztest YAML files for a package should reside in a subdirectory named
// testdata/ztest.
//
//	pkg/
//	  pkg.go
//	  pkg_test.go
//	  testdata/
//	    ztest/
//	      test-1.yaml
//	      test-2.yaml
//	      ...
//
// Name YAML files descriptively since each ztest runs as a subtest
// named for the file that defines it.
//
// pkg_test.go should contain a Go test named TestZTest that calls Run.
//
//	func TestZTest(t *testing.T) { ztest.Run(t, "testdata/ztest") }
//
// Tests can be skipped by setting the skip field to a non-empty string.
// A message containing the string will be written to the test log.
package ztest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/brimdata/arrowfunc/pkg/arrowtype"
	"github.com/brimdata/arrowfunc/runtime/function"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

type Bundle struct {
	TestName string
	FileName string
	Test     *ZTest
	Error    error
}

func Load(dirname string) ([]Bundle, error) {
	var bundles []Bundle
	fileinfos, err := os.ReadDir(dirname)
	if err != nil {
		return nil, err
	}
	for _, fi := range fileinfos {
		filename := fi.Name()
		const dotyaml = ".yaml"
		if !strings.HasSuffix(filename, dotyaml) {
			continue
		}
		testname := strings.TrimSuffix(filename, dotyaml)
		filename = filepath.Join(dirname, filename)
		zt, err := FromYAMLFile(filename)
		bundles = append(bundles, Bundle{testname, filename, zt, err})
	}
	return bundles, nil
}

// Run runs the ztests in the directory named dirname.  For each file f.yaml in
// the directory, Run calls FromYAMLFile to load a ztest and then runs it in
// subtest named f.
func Run(t *testing.T, dirname string) {
	bundles, err := Load(dirname)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range bundles {
		t.Run(b.TestName, func(t *testing.T) {
			t.Parallel()
			if b.Error != nil {
				t.Fatalf("%s: %s", b.FileName, b.Error)
			}
			b.Test.Run(t, b.FileName)
		})
	}
}

// ZTest defines a ztest.
type ZTest struct {
	Skip string `yaml:"skip,omitempty"`

	Call       string  `yaml:"call"`
	InputType  string  `yaml:"input-type"`
	Input      string  `yaml:"input"`
	OutputType string  `yaml:"output-type,omitempty"`
	Output     *string `yaml:"output,omitempty"`
	Error      string  `yaml:"error,omitempty"`
}

func (z *ZTest) check() error {
	if z.Call == "" {
		return errors.New("call field missing")
	}
	if z.InputType == "" {
		return errors.New("input-type field missing")
	}
	if z.Output == nil && z.Error == "" {
		return errors.New("either an output field or an error field must be present")
	}
	return nil
}

// FromYAMLFile loads a ZTest from the YAML file named filename.
func FromYAMLFile(filename string) (*ZTest, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	d := yaml.NewDecoder(bytes.NewReader(b))
	d.KnownFields(true)
	var z ZTest
	if err := d.Decode(&z); err != nil {
		return nil, err
	}
	return &z, nil
}

func (z *ZTest) Run(t *testing.T, filename string) {
	if z.Skip != "" {
		t.Skip("skipping test:", z.Skip)
	}
	if err := z.RunInternal(t.Context()); err != nil {
		t.Fatalf("%s: %s", filename, err)
	}
}

func (z *ZTest) RunInternal(ctx context.Context) error {
	if err := z.check(); err != nil {
		return fmt.Errorf("bad yaml format: %w", err)
	}
	typ, err := arrowtype.Parse(z.InputType)
	if err != nil {
		return fmt.Errorf("input-type: %w", err)
	}
	out, err := runInternal(ctx, z.Call, typ, z.Input)
	return z.diffInternal(out, err)
}

func (z *ZTest) diffInternal(out *result, err error) error {
	var errStr string
	if err != nil {
		errStr = strings.TrimSuffix(err.Error(), "\n") + "\n"
	}
	var expectedErr string
	if z.Error != "" {
		expectedErr = strings.TrimSuffix(z.Error, "\n") + "\n"
	}
	if expectedErr != errStr {
		return diffErr("error", expectedErr, errStr)
	}
	if err != nil {
		return nil
	}
	if z.OutputType != "" {
		expected, err := arrowtype.Parse(z.OutputType)
		if err != nil {
			return fmt.Errorf("output-type: %w", err)
		}
		if !arrow.TypeEqual(expected, out.typ) {
			return fmt.Errorf("expected output type %s but got %s", expected, out.typ)
		}
	}
	if z.Output == nil {
		return nil
	}
	expected, err := compactJSON(*z.Output)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if expected != out.json {
		return diffErr("output", expected, out.json)
	}
	return nil
}

func compactJSON(s string) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

func diffErr(name, expected, actual string) error {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		FromFile: "expected",
		B:        difflib.SplitLines(actual),
		ToFile:   "actual",
		Context:  5,
	})
	if err != nil {
		panic("ztest: " + err.Error())
	}
	return fmt.Errorf("expected and actual %s differ:\n%s", name, diff)
}

type result struct {
	typ  arrow.DataType
	json string
}

// runInternal resolves and invokes the function called name on the JSON
// input, returning the output type and the output as compact JSON.
func runInternal(ctx context.Context, name string, typ arrow.DataType, input string) (*result, error) {
	mem := memory.DefaultAllocator
	f, err := function.New(mem, name, 1)
	if err != nil {
		return nil, err
	}
	outType, err := f.ReturnType(typ)
	if err != nil {
		return nil, err
	}
	arr, _, err := array.FromJSON(mem, typ, strings.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	defer arr.Release()
	out, err := f.Invoke(ctx, compute.NewDatum(arr))
	if err != nil {
		return nil, err
	}
	defer out.Release()
	ad, ok := out.(*compute.ArrayDatum)
	if !ok {
		return nil, fmt.Errorf("unexpected %s result", out.Kind())
	}
	vec := ad.MakeArray()
	defer vec.Release()
	if !arrow.TypeEqual(outType, vec.DataType()) {
		return nil, fmt.Errorf("resolved type %s but produced %s", outType, vec.DataType())
	}
	b, err := json.Marshal(vec)
	if err != nil {
		return nil, err
	}
	s, err := compactJSON(string(b))
	if err != nil {
		return nil, err
	}
	return &result{typ: vec.DataType(), json: s}, nil
}
