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

package swrl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ontokit/ontokit/factstore/memstore"
	"github.com/ontokit/ontokit/swrl"
)

func TestApplyAllKeepsJobOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	adult := adultRule(t)
	known := makeRule(t, "known-by",
		[]swrl.Atom{objectAtom(t, "knows", x, y)},
		nil,
		objectAtom(t, "knownBy", y, x),
	)
	empty := memstore.New()

	var jobs []swrl.Job
	for i := 0; i < 20; i++ {
		switch i % 3 {
		case 0:
			jobs = append(jobs, swrl.Job{Rule: adult, Store: makeStore(t)})
		case 1:
			jobs = append(jobs, swrl.Job{Rule: known, Store: makeStore(t)})
		default:
			jobs = append(jobs, swrl.Job{Rule: adult, Store: empty})
		}
	}
	res, err := swrl.ApplyAll(context.Background(), jobs, 4)
	require.NoError(t, err)
	require.Len(t, res, len(jobs))
	for i, infs := range res {
		switch i % 3 {
		case 0:
			require.Equal(t, []string{"ex:Adult(ex:alice)", "ex:Adult(ex:carol)"}, factStrings(infs))
		case 1:
			require.Equal(t, []string{"ex:knownBy(ex:bob,ex:alice)", "ex:knownBy(ex:carol,ex:bob)"}, factStrings(infs))
		default:
			require.Empty(t, infs)
		}
	}
}

func TestApplyAllStopsOnError(t *testing.T) {
	defer goleak.VerifyNone(t)

	jobs := []swrl.Job{
		{Rule: adultRule(t), Store: makeStore(t)},
		{Rule: adultRule(t), Store: brokenReader{Reader: makeStore(t)}},
	}
	_, err := swrl.ApplyAll(context.Background(), jobs, 1)
	require.ErrorIs(t, err, errBroken)
}

func TestApplyAllCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := swrl.ApplyAll(ctx, []swrl.Job{{Rule: adultRule(t), Store: makeStore(t)}}, 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestApplyRules(t *testing.T) {
	defer goleak.VerifyNone(t)

	qs := makeStore(t)
	rules := []*swrl.Rule{
		adultRule(t),
		makeRule(t, "dog-owner",
			[]swrl.Atom{objectAtom(t, "owns", x, y), classAtom(t, "Dog", y)},
			nil,
			classAtom(t, "DogOwner", x),
		),
	}
	infs, err := swrl.ApplyRules(context.Background(), rules, qs, 0)
	require.NoError(t, err)
	require.Equal(t, []string{
		"ex:Adult(ex:alice)",
		"ex:Adult(ex:carol)",
		"ex:DogOwner(ex:carol)",
		"ex:DogOwner(ex:carol)",
	}, factStrings(infs))
	require.Len(t, swrl.Dedup(infs), 3)
}
