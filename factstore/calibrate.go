// Copyright 2024 The Ontokit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package factstore

import (
	"github.com/ontokit/ontokit/taxonomy"
	"github.com/ontokit/ontokit/term"
)

// Calibrate wraps r so that its answers follow the hierarchy in tax:
// class membership includes subclasses, property edges include sub and
// equivalent properties, symmetric properties are read both ways and edges
// of an inverse property are read reversed.
func Calibrate(r Reader, tax *taxonomy.Store) Reader {
	return &calibrated{r: r, tax: tax}
}

type calibrated struct {
	r   Reader
	tax *taxonomy.Store
}

func (c *calibrated) IndividualsOf(class string) ([]term.Individual, error) {
	var out []term.Individual
	seen := make(map[term.Individual]struct{})
	for _, sub := range c.tax.SubClassesOf(class) {
		inds, err := c.r.IndividualsOf(sub)
		if err != nil {
			return nil, err
		}
		for _, ind := range inds {
			if _, ok := seen[ind]; ok {
				continue
			}
			seen[ind] = struct{}{}
			out = append(out, ind)
		}
	}
	return out, nil
}

func (c *calibrated) ObjectEdges(property string) ([]ObjectEdge, error) {
	var out []ObjectEdge
	seen := make(map[ObjectEdge]struct{})
	add := func(e ObjectEdge) {
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	for _, sub := range c.tax.SubPropertiesOf(property) {
		edges, err := c.r.ObjectEdges(sub)
		if err != nil {
			return nil, err
		}
		symmetric := c.tax.IsSymmetric(sub) || c.tax.IsSymmetric(property)
		for _, e := range edges {
			add(e)
			if symmetric {
				add(e.Reverse())
			}
		}
		for _, inv := range c.tax.InversesOf(sub) {
			for _, p := range c.tax.SubPropertiesOf(inv) {
				edges, err := c.r.ObjectEdges(p)
				if err != nil {
					return nil, err
				}
				for _, e := range edges {
					add(e.Reverse())
				}
			}
		}
	}
	return out, nil
}

func (c *calibrated) DataEdges(property string) ([]DataEdge, error) {
	var out []DataEdge
	seen := make(map[DataEdge]struct{})
	for _, sub := range c.tax.SubPropertiesOf(property) {
		edges, err := c.r.DataEdges(sub)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	return out, nil
}
