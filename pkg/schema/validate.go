package schema

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/blocksmith/pkg/domain"
)

var validate = validator.New()

// Validate checks the structure of a document: required fields, unique node
// names, resolvable links, no self links and at most one link per input.
// Returns every problem found as an *AggregateError.
func Validate(doc *domain.GraphDocument) error {
	var errs []error

	if err := validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, &ValidationError{Key: fe.Namespace(), Reason: fe.Tag()})
		}
	}

	known := make(map[string]bool, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.Name == "" {
			continue
		}
		if known[n.Name] {
			errs = append(errs, &ValidationError{
				Key:    fmt.Sprintf("nodes[%d].name", i),
				Reason: "duplicate node name",
				Value:  n.Name,
				Err:    domain.ErrDuplicateNode,
			})
		}
		known[n.Name] = true
	}
	isKnown := func(name string) bool { return known[name] }

	inputs := make(map[SocketRef]int)
	for i, l := range doc.Links {
		from, errFrom := ParseRef(l.From, isKnown)
		if errFrom != nil && l.From != "" {
			errs = append(errs, &ValidationError{Key: fmt.Sprintf("links[%d].from", i), Reason: errFrom.Error(), Err: domain.ErrUnknownNode})
		}
		to, errTo := ParseRef(l.To, isKnown)
		if errTo != nil && l.To != "" {
			errs = append(errs, &ValidationError{Key: fmt.Sprintf("links[%d].to", i), Reason: errTo.Error(), Err: domain.ErrUnknownNode})
		}
		if errFrom != nil || errTo != nil {
			continue
		}

		if from.Node == to.Node {
			errs = append(errs, &ValidationError{Key: fmt.Sprintf("links[%d]", i), Reason: "links a node to itself", Value: from.Node, Err: domain.ErrSelfLink})
		}
		if prev, dup := inputs[to]; dup {
			errs = append(errs, &ValidationError{
				Key:    fmt.Sprintf("links[%d].to", i),
				Reason: fmt.Sprintf("input already linked by links[%d]", prev),
				Value:  to.String(),
			})
			continue
		}
		inputs[to] = i
	}

	return aggregate(errs)
}
