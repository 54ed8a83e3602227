package cluster

import (
	"encoding/json"
	"sort"
)

// DefaultSignatureField is the hit field hits are grouped on.
const DefaultSignatureField = "entityContent"

// Hit is a single search hit as seen by the clustering stage.
type Hit struct {
	ID     string
	Index  string
	Score  float64
	Fields map[string]string
}

// Signature is a cluster key. Hits missing the signature field share the
// absent signature.
type Signature struct {
	Value   string
	Present bool
}

// Absent is the signature of hits that lack the signature field.
var Absent = Signature{}

// Of returns a present signature.
func Of(value string) Signature { return Signature{Value: value, Present: true} }

// MarshalJSON encodes an absent signature as null.
func (s Signature) MarshalJSON() ([]byte, error) {
	if !s.Present {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// String returns the value, or "<absent>".
func (s Signature) String() string {
	if !s.Present {
		return "<absent>"
	}
	return s.Value
}

// Cluster is a group of hits sharing one signature, members in first-seen order.
type Cluster struct {
	Name    Signature
	Members []string
}

// Size returns the number of members.
func (c *Cluster) Size() int { return len(c.Members) }

// Set holds clusters keyed by signature and remembers the order in which
// signatures were first seen.
type Set struct {
	order    []Signature
	clusters map[Signature]*Cluster
}

// Len returns the number of clusters.
func (s *Set) Len() int { return len(s.order) }

// Get returns the cluster for sig.
func (s *Set) Get(sig Signature) (Cluster, bool) {
	c, ok := s.clusters[sig]
	if !ok {
		return Cluster{}, false
	}
	return cloneCluster(c), true
}

// Clusters returns copies of all clusters in first-seen order.
func (s *Set) Clusters() []Cluster {
	out := make([]Cluster, len(s.order))
	for i, sig := range s.order {
		out[i] = cloneCluster(s.clusters[sig])
	}
	return out
}

func (s *Set) add(sig Signature, id string) {
	c, ok := s.clusters[sig]
	if !ok {
		c = &Cluster{Name: sig}
		s.clusters[sig] = c
		s.order = append(s.order, sig)
	}
	c.Members = append(c.Members, id)
}

// Build groups hits by the exact value of signatureField, in hit order.
// No normalization is applied to signature values.
func Build(hits []Hit, signatureField string) *Set {
	set := &Set{clusters: make(map[Signature]*Cluster)}
	for i := range hits {
		sig := Absent
		if v, ok := hits[i].Fields[signatureField]; ok {
			sig = Of(v)
		}
		set.add(sig, hits[i].ID)
	}
	return set
}

// List is the ranked cluster output.
type List []Cluster

// Rank orders clusters by descending member count. Clusters of equal size
// keep first-seen order. The set is not modified.
func Rank(set *Set) List {
	if set == nil {
		return List{}
	}
	list := List(set.Clusters())
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Size() > list[j].Size()
	})
	return list
}

func cloneCluster(c *Cluster) Cluster {
	members := make([]string, len(c.Members))
	copy(members, c.Members)
	return Cluster{Name: c.Name, Members: members}
}
