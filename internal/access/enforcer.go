package access

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// rolePolicies is the full static grant table. There are exactly two roles;
// hr inherits every employee grant through the grouping policy below.
var rolePolicies = [][]string{
	{RoleEmployee, "leave", "create"},
	{RoleEmployee, "leave", "view_own"},
	{RoleEmployee, "leave", "view_today"},
	{RoleEmployee, "stats", "view_own"},

	{RoleHR, "leave", "view_all"},
	{RoleHR, "leave", "approve"},
	{RoleHR, "leave", "reject"},
	{RoleHR, "stats", "view_admin"},
	{RoleHR, "users", "list"},
}

func newEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range rolePolicies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	if _, err := e.AddGroupingPolicy(RoleHR, RoleEmployee); err != nil {
		return nil, err
	}

	return e, nil
}
