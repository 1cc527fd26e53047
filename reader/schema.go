package reader

import (
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/parq/record"
)

// SchemaInfo describes a single leaf column of a parquet file.
type SchemaInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type"`
	Required     bool   `json:"required"`
	Optional     bool   `json:"optional"`
	Repeated     bool   `json:"repeated"`
}

// Record converts the column description into a record so schema listings
// can go through the same encoders as data.
func (s SchemaInfo) Record() *record.Record {
	rec := record.New()
	rec.Set("name", s.Name)
	rec.Set("type", s.Type)
	rec.Set("physical_type", s.PhysicalType)
	rec.Set("logical_type", s.LogicalType)
	rec.Set("required", s.Required)
	rec.Set("optional", s.Optional)
	rec.Set("repeated", s.Repeated)
	return rec
}

// ExtractSchemaInfo lists the leaf columns of the parquet file at path, in
// schema order. Nested columns use dot notation (e.g. "address.street") and
// inherit the repeated flag of any repeated ancestor.
func ExtractSchemaInfo(path string) ([]SchemaInfo, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var infos []SchemaInfo
	for _, field := range r.Schema().Fields() {
		infos = appendLeaves(infos, field, "", false)
	}
	return infos, nil
}

func appendLeaves(infos []SchemaInfo, field parquet.Field, prefix string, parentRepeated bool) []SchemaInfo {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}
	repeated := parentRepeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		for _, child := range children {
			infos = appendLeaves(infos, child, name, repeated)
		}
		return infos
	}

	return append(infos, SchemaInfo{
		Name:         name,
		Type:         friendlyType(field),
		PhysicalType: physicalType(field),
		LogicalType:  logicalType(field),
		Required:     field.Required(),
		Optional:     field.Optional(),
		Repeated:     repeated,
	})
}

var physicalNames = map[parquet.Kind]string{
	parquet.Boolean:           "BOOLEAN",
	parquet.Int32:             "INT32",
	parquet.Int64:             "INT64",
	parquet.Int96:             "INT96",
	parquet.Float:             "FLOAT",
	parquet.Double:            "DOUBLE",
	parquet.ByteArray:         "BYTE_ARRAY",
	parquet.FixedLenByteArray: "FIXED_LEN_BYTE_ARRAY",
}

// logicalNames maps parquet logical type names to the names shown to users.
var logicalNames = map[string]string{
	"STRING":    "STRING",
	"UTF8":      "STRING",
	"ENUM":      "ENUM",
	"UUID":      "UUID",
	"DATE":      "DATE",
	"TIME":      "TIME",
	"TIMESTAMP": "TIMESTAMP",
	"DECIMAL":   "DECIMAL",
	"JSON":      "JSON",
	"BSON":      "BSON",
}

func physicalType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}
	if name, ok := physicalNames[field.Type().Kind()]; ok {
		return name
	}
	return "UNKNOWN"
}

func logicalType(field parquet.Field) string {
	if field.Type() == nil || field.Type().LogicalType() == nil {
		return ""
	}
	return field.Type().LogicalType().String()
}

// friendlyType prefers the logical type and falls back to the physical one,
// spelling floating point kinds by width.
func friendlyType(field parquet.Field) string {
	// parameterised types render as e.g. TIMESTAMP(isAdjustedToUTC=true,unit=MILLIS)
	base, _, _ := strings.Cut(logicalType(field), "(")
	if name, ok := logicalNames[base]; ok {
		return name
	}
	switch physical := physicalType(field); physical {
	case "FLOAT":
		return "FLOAT32"
	case "DOUBLE":
		return "FLOAT64"
	default:
		return physical
	}
}
