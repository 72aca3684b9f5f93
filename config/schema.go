package config

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSource string

// validate checks decoded tilde.toml content against the #Config
// definition in schema.cue. Definitions are closed, so the schema also
// rejects keys it does not name.
func validate(raw map[string]interface{}) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("configuration schema: %w", err)
	}
	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(raw))
	return v.Validate(cue.Concrete(true))
}
