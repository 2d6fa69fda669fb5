package qstate

import "github.com/goliatone/go-querystate/codec"

// FieldDescriptor describes one store key read by a Query.
type FieldDescriptor struct {
	Key string `json:"key"`
	codec.Descriptor
}

// Describe lists every key of the Query schema, sorted by key.
func (q *Query) Describe() []FieldDescriptor {
	return DescribeSchema(q.Schema())
}

// DescribeSchema lists the descriptors of schema, sorted by key.
func DescribeSchema(schema codec.Schema) []FieldDescriptor {
	keys := schema.Keys()
	out := make([]FieldDescriptor, 0, len(keys))
	for _, key := range keys {
		out = append(out, FieldDescriptor{Key: key, Descriptor: schema[key].Descriptor()})
	}
	return out
}
