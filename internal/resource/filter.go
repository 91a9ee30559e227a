package resource

import "go.mongodb.org/mongo-driver/v2/bson"

type where[T any] struct {
	cond  bson.E
	match func(doc *T) bool
}

// Where builds a single-condition Filter; cond and match must agree.
func Where[T any](cond bson.E, match func(doc *T) bool) Filter[T] {
	return where[T]{cond: cond, match: match}
}

func (w where[T]) Query() bson.D     { return bson.D{w.cond} }
func (w where[T]) Match(doc *T) bool { return w.match(doc) }

type all[T any] []Filter[T]

// All matches documents matching every filter. With no filters it
// matches everything.
func All[T any](filters ...Filter[T]) Filter[T] {
	return all[T](filters)
}

func (a all[T]) Query() bson.D {
	q := bson.D{}
	for _, f := range a {
		q = append(q, f.Query()...)
	}
	return q
}

func (a all[T]) Match(doc *T) bool {
	for _, f := range a {
		if !f.Match(doc) {
			return false
		}
	}
	return true
}
