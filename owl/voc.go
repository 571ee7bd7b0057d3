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

// Package owl contains constants of the Web Ontology Language (OWL) that
// ontokit reads when calibrating property assertions.
package owl

import (
	// The owl: prefix is registered by the quad vocabulary package.
	_ "github.com/cayleygraph/quad/voc/owl"
)

const (
	NS     = `http://www.w3.org/2002/07/owl#`
	Prefix = `owl:`
)

const (
	Class              = NS + "Class"
	Thing              = NS + "Thing"
	NamedIndividual    = NS + "NamedIndividual"
	ObjectProperty     = NS + "ObjectProperty"
	DatatypeProperty   = NS + "DatatypeProperty"
	SymmetricProperty  = NS + "SymmetricProperty"
	TransitiveProperty = NS + "TransitiveProperty"
	InverseOf          = NS + "inverseOf"
	EquivalentClass    = NS + "equivalentClass"
	EquivalentProperty = NS + "equivalentProperty"
	SameAs             = NS + "sameAs"
	Restriction        = NS + "Restriction"
	OnProperty         = NS + "onProperty"
)
