package mcp

import (
	"bytes"
	_ "embed"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/thoreinstein/nexus/internal/errors"
)

//go:embed schema/server.schema.json
var schemaBytes []byte

const schemaURL = "server.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationIssue is one leaf failure reported by the schema.
type ValidationIssue struct {
	Path    string
	Keyword string
	Message string
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = errors.Wrap(err, "unmarshaling schema JSON")
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = errors.Wrap(err, "adding schema resource")
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = errors.Wrap(compileErr, "compiling schema")
		}
	})
	return compiledSchema, compileErr
}

// ValidatePayload checks raw canonical JSON against the server schema.
// Any failure is marked ErrMalformedData.
func ValidatePayload(data []byte) error {
	sch, err := getSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return errors.Malformed(err, "parsing server JSON")
	}

	err = sch.Validate(inst)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return errors.Wrap(err, "validating server")
	}

	issues := collectIssues(ve, nil)
	msgs := make([]string, 0, len(issues))
	for _, is := range issues {
		msgs = append(msgs, is.String())
	}
	if len(msgs) == 0 {
		msgs = append(msgs, ve.Error())
	}
	return errors.Mark(errors.Newf("server does not match schema: %s", strings.Join(msgs, "; ")), errors.ErrMalformedData)
}

// collectIssues walks the error tree down to leaves, skipping the
// combinator keywords that only say "a branch failed".
func collectIssues(ve *jsonschema.ValidationError, out []ValidationIssue) []ValidationIssue {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			out = collectIssues(c, out)
		}
		return out
	}
	if ve.ErrorKind == nil {
		return out
	}

	keyword := ""
	if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
		keyword = kw[len(kw)-1]
	}
	switch keyword {
	case "", "oneOf", "allOf", "$ref":
		return out
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	issue := ValidationIssue{Path: path, Keyword: keyword, Message: ve.ErrorKind.LocalizedString(printer)}
	for _, seen := range out {
		if seen == issue {
			return out
		}
	}
	return append(out, issue)
}

// Validate checks the structural invariants of s: a usable transport with
// exactly the fields that transport needs.
func (s *Server) Validate() error {
	data, err := s.MarshalJSON()
	if err != nil {
		return errors.Malformed(err, "encoding server")
	}
	if err := ValidatePayload(data); err != nil {
		return errors.Wrapf(err, "server %q", s.Name)
	}
	return nil
}
