// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

package backend

import (
	"github.com/glimmer-tech/menagerie/core/validate"
)

// resource-specific bounds for numeric attributes
const (
	// MaxMagic is the largest permitted magic power of a unicorn
	MaxMagic = 20
	// MaxBoatLength is the largest permitted boat length, in feet
	MaxBoatLength = 10000
	// MaxLoadWeight is the largest permitted load weight, in pounds
	MaxLoadWeight = 100000
)

// default page sizes
const (
	defaultLimitOwned = 5
	defaultLimitOpen  = 3
)

// The stable kinds (unicorns, blessings) fold names to lower case and accept
// alphanumeric characters and spaces only. The marina kinds (boats, loads)
// preserve case and accept arbitrary characters, so delivery dates and boat
// types can carry punctuation.
var (
	unicornSchema = validate.MustNew(validate.Options{
		Kind:         "unicorns",
		CaseFold:     true,
		Alphanumeric: true,
		Attributes: []validate.Attribute{
			{Name: "name", Type: validate.String},
			{Name: "color", Type: validate.String},
			{Name: "magic", Type: validate.Int, Max: MaxMagic},
		},
	})
	blessingSchema = validate.MustNew(validate.Options{
		Kind:         "blessings",
		CaseFold:     true,
		Alphanumeric: true,
		Attributes: []validate.Attribute{
			{Name: "name", Type: validate.String},
			{Name: "habitat", Type: validate.String},
			{Name: "description", Type: validate.String},
		},
	})
	boatSchema = validate.MustNew(validate.Options{
		Kind: "boats",
		Attributes: []validate.Attribute{
			{Name: "name", Type: validate.String},
			{Name: "type", Type: validate.String},
			{Name: "length", Type: validate.Int, Max: MaxBoatLength},
		},
	})
	loadSchema = validate.MustNew(validate.Options{
		Kind: "loads",
		Attributes: []validate.Attribute{
			{Name: "weight", Type: validate.Int, Max: MaxLoadWeight},
			{Name: "content", Type: validate.String},
			{Name: "delivery_date", Type: validate.String},
		},
	})
)
