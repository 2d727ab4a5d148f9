package schema

// UnionType owns an ordered member list of object types. Membership is
// the union type referencing its members — so the union is itself a
// Referencer of every member, and removing a member type drops it from
// the member list.
type UnionType struct {
	typeBase
	members      []*ObjectType
	memberByName map[string]int
}

func (u *UnionType) TypeKind() Kind      { return KindUnion }
func (u *UnionType) BaseType() NamedType { return u }
func (u *UnionType) String() string      { return u.name }
func (u *UnionType) describe() string    { return "union " + u.name }

func (u *UnionType) Members() []*ObjectType {
	out := make([]*ObjectType, len(u.members))
	copy(out, u.members)
	return out
}

func (u *UnionType) HasMember(name string) bool {
	_, ok := u.memberByName[name]
	return ok
}

// AddMember registers an object type as a union member, wiring the
// referencer edge so removing the member type later updates this list.
func (u *UnionType) AddMember(member *ObjectType) error {
	if u.dead {
		return errDetached(u.describe())
	}
	if member.Schema() != u.schema {
		return errCrossSchema(u.name + " member " + member.Name())
	}
	if u.HasMember(member.Name()) {
		return nil
	}
	if u.memberByName == nil {
		u.memberByName = make(map[string]int)
	}
	u.memberByName[member.Name()] = len(u.members)
	u.members = append(u.members, member)
	member.addReferencer(u)
	return nil
}

// removeTypeReference drops the removed type from the member list, per
// the UnionType case of the §4.C2 removal algorithm.
func (u *UnionType) removeTypeReference(removed NamedType) {
	idx, ok := u.memberByName[removed.Name()]
	if !ok {
		return
	}
	u.members = append(u.members[:idx], u.members[idx+1:]...)
	delete(u.memberByName, removed.Name())
	for name, i := range u.memberByName {
		if i > idx {
			u.memberByName[name] = i - 1
		}
	}
}

func (u *UnionType) Remove() []Referencer {
	if u.dead {
		return nil
	}
	if u.schema != nil {
		delete(u.schema.types, u.name)
	}
	for _, m := range u.members {
		m.dropReferencer(u)
	}
	u.members = nil
	u.memberByName = nil
	u.directives.removeAll()

	refs := u.Referencers()
	for _, r := range refs {
		r.removeTypeReference(u)
	}
	u.refs = nil
	u.schema = nil
	u.dead = true
	return refs
}
