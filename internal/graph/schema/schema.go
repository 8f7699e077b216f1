// Package schema embeds the GraphQL SDL served by the API.
package schema

import (
	_ "embed"
)

// Name is the source name reported in SDL parse errors
const Name = "schema.graphqls"

//go:embed schema.graphqls
var SDL string
