package config

import "regexp"

// A NodeIdentifier identifies a set of program-graph nodes that are sources, sinks,
// sanitizers, etc. A node can be identified by its kind, declared type, enclosing
// procedure or identifier, or any combination of those. Every field is interpreted as
// a regular expression when it compiles, and as an equality test otherwise. An empty
// field matches anything.
type NodeIdentifier struct {
	Kind string `xml:"kind,attr" yaml:"kind"`
	Type string `xml:"type,attr" yaml:"type"`
	Proc string `xml:"proc,attr" yaml:"proc"`
	ID   string `xml:"id,attr" yaml:"id"`
	// This will not be part of the yaml config
	computedRegexs *nodeIdentifierRegex
}

type nodeIdentifierRegex struct {
	kindRegex *regexp.Regexp
	typeRegex *regexp.Regexp
	procRegex *regexp.Regexp
	idRegex   *regexp.Regexp
}

// NodeAttrs are the attributes of a concrete graph node that identifiers are matched
// against. The analyses build one from each program.Node they classify.
type NodeAttrs struct {
	Kind string
	Type string
	Proc string
	ID   string
}

// compileRegexes compiles the strings in the node identifier into regexes. It compiles
// all identifiers into regexes or none.
func compileRegexes(n NodeIdentifier) NodeIdentifier {
	kindRegex, err := regexp.Compile(n.Kind)
	if err != nil {
		return n
	}
	typeRegex, err := regexp.Compile(n.Type)
	if err != nil {
		return n
	}
	procRegex, err := regexp.Compile(n.Proc)
	if err != nil {
		return n
	}
	idRegex, err := regexp.Compile(n.ID)
	if err != nil {
		return n
	}
	n.computedRegexs = &nodeIdentifierRegex{kindRegex, typeRegex, procRegex, idRegex}
	return n
}

// Matches returns true if each non-empty field of the identifier matches the
// corresponding attribute of the node. An identifier with only empty fields matches
// every node.
func (n NodeIdentifier) Matches(attrs NodeAttrs) bool {
	if n.computedRegexs != nil {
		return (n.Kind == "" || n.computedRegexs.kindRegex.MatchString(attrs.Kind)) &&
			(n.Type == "" || n.computedRegexs.typeRegex.MatchString(attrs.Type)) &&
			(n.Proc == "" || n.computedRegexs.procRegex.MatchString(attrs.Proc)) &&
			(n.ID == "" || n.computedRegexs.idRegex.MatchString(attrs.ID))
	}
	return (n.Kind == "" || n.Kind == attrs.Kind) &&
		(n.Type == "" || n.Type == attrs.Type) &&
		(n.Proc == "" || n.Proc == attrs.Proc) &&
		(n.ID == "" || n.ID == attrs.ID)
}

// A StepIdentifier identifies an additional flow step: a pair of node identifiers for
// the origin and destination of the synthesized edge.
type StepIdentifier struct {
	From NodeIdentifier `xml:"from" yaml:"from"`
	To   NodeIdentifier `xml:"to" yaml:"to"`
}

// A ContentPattern matches content labels on store and load edges. As with node
// identifiers, fields are regexes when they compile and equality tests otherwise,
// and empty fields match anything.
type ContentPattern struct {
	Kind string `xml:"kind,attr" yaml:"kind"`
	Name string `xml:"name,attr" yaml:"name"`

	kindRegex *regexp.Regexp
	nameRegex *regexp.Regexp
}

func compileContentPattern(p ContentPattern) ContentPattern {
	kindRegex, err := regexp.Compile(p.Kind)
	if err != nil {
		return p
	}
	nameRegex, err := regexp.Compile(p.Name)
	if err != nil {
		return p
	}
	p.kindRegex = kindRegex
	p.nameRegex = nameRegex
	return p
}

// Matches returns true if the pattern matches a content label with the given kind
// and name
func (p ContentPattern) Matches(kind string, name string) bool {
	if p.kindRegex != nil && p.nameRegex != nil {
		return (p.Kind == "" || p.kindRegex.MatchString(kind)) &&
			(p.Name == "" || p.nameRegex.MatchString(name))
	}
	return (p.Kind == "" || p.Kind == kind) &&
		(p.Name == "" || p.Name == name)
}

// An ImplicitReadSpec allows the nodes matching Node to read the contents matching
// Labels without a prior matching store. This models containers (arrays, collections)
// whose write sites the front end does not track.
type ImplicitReadSpec struct {
	Node   NodeIdentifier   `xml:"node" yaml:"node"`
	Labels []ContentPattern `xml:"label" yaml:"labels"`
}
