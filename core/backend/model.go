// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

package backend

import (
	"strconv"

	"github.com/glimmer-tech/menagerie/core"
	"github.com/glimmer-tech/menagerie/core/store"
)

// Ref is a stored pointer to another record. The self locator is derived at
// response time and never stored.
type Ref struct {
	ID   string `json:"id"`
	Self string `json:"self,omitempty"`
}

// User is a local user record, provisioned by the login flow.
type User struct {
	GID   string `json:"gid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Unicorn is an owned record. Friend references the creating user, Blessing
// the at most one blessing the unicorn is assigned to.
type Unicorn struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Magic    int    `json:"magic"`
	Friend   Ref    `json:"friend"`
	Blessing *Ref   `json:"blessing"`
}

// Blessing is an owned record. Founder references the creating user, Unicorns
// holds the membership list of assigned unicorns.
type Blessing struct {
	Name        string `json:"name"`
	Habitat     string `json:"habitat"`
	Description string `json:"description"`
	Founder     Ref    `json:"founder"`
	Unicorns    []Ref  `json:"unicorns"`
}

// Boat is an open record. Loads holds the membership list of carried loads.
type Boat struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Length int    `json:"length"`
	Loads  []Ref  `json:"loads"`
}

// Load is an open record. Carrier references the at most one boat carrying it.
type Load struct {
	Weight       int    `json:"weight"`
	Content      string `json:"content"`
	DeliveryDate string `json:"delivery_date"`
	Carrier      *Ref   `json:"carrier"`
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}

func selfURL(base string, kind core.Kind, id string) string {
	return base + string(kind) + "/" + id
}

// decorated response shapes: the stored document plus the derived identifier
// and self locator

type userResource struct {
	ID string `json:"id"`
	User
	Self string `json:"self"`
}

type unicornResource struct {
	ID string `json:"id"`
	Unicorn
	Self string `json:"self"`
}

type blessingResource struct {
	ID string `json:"id"`
	Blessing
	Self string `json:"self"`
}

type boatResource struct {
	ID string `json:"id"`
	Boat
	Self string `json:"self"`
}

type loadResource struct {
	ID string `json:"id"`
	Load
	Self string `json:"self"`
}

func decorateUser(record *store.Record, user User, base string) userResource {
	id := formatID(record.ID)
	return userResource{ID: id, User: user, Self: selfURL(base, core.KindUsers, id)}
}

func decorateUnicorn(record *store.Record, unicorn Unicorn, base string) unicornResource {
	unicorn.Friend.Self = selfURL(base, core.KindUsers, unicorn.Friend.ID)
	if unicorn.Blessing != nil {
		blessing := *unicorn.Blessing
		blessing.Self = selfURL(base, core.KindBlessings, blessing.ID)
		unicorn.Blessing = &blessing
	}
	id := formatID(record.ID)
	return unicornResource{ID: id, Unicorn: unicorn, Self: selfURL(base, core.KindUnicorns, id)}
}

func decorateBlessing(record *store.Record, blessing Blessing, base string) blessingResource {
	blessing.Founder.Self = selfURL(base, core.KindUsers, blessing.Founder.ID)
	members := make([]Ref, len(blessing.Unicorns))
	for i, member := range blessing.Unicorns {
		member.Self = selfURL(base, core.KindUnicorns, member.ID)
		members[i] = member
	}
	blessing.Unicorns = members
	id := formatID(record.ID)
	return blessingResource{ID: id, Blessing: blessing, Self: selfURL(base, core.KindBlessings, id)}
}

func decorateBoat(record *store.Record, boat Boat, base string) boatResource {
	members := make([]Ref, len(boat.Loads))
	for i, member := range boat.Loads {
		member.Self = selfURL(base, core.KindLoads, member.ID)
		members[i] = member
	}
	boat.Loads = members
	id := formatID(record.ID)
	return boatResource{ID: id, Boat: boat, Self: selfURL(base, core.KindBoats, id)}
}

func decorateLoad(record *store.Record, load Load, base string) loadResource {
	if load.Carrier != nil {
		carrier := *load.Carrier
		carrier.Self = selfURL(base, core.KindBoats, carrier.ID)
		load.Carrier = &carrier
	}
	id := formatID(record.ID)
	return loadResource{ID: id, Load: load, Self: selfURL(base, core.KindLoads, id)}
}
