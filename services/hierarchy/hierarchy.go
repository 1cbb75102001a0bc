package hierarchy

import (
	"panchayath_go/models"
	"panchayath_go/utils"
)

// UnassignedLabel is rendered for an agent whose superior reference
// does not resolve to any loaded agent.
const UnassignedLabel = "Unassigned"

// roleOrder maps each hierarchy role to its level, coordinator first.
var roleOrder = []string{
	models.RoleCoordinator,
	models.RoleSupervisor,
	models.RoleGroupLeader,
	models.RolePro,
}

// LevelOf returns the 0-based hierarchy level for a role, -1 if unknown.
func LevelOf(role string) int {
	for i, r := range roleOrder {
		if r == role {
			return i
		}
	}
	return -1
}

// Forest is an in-memory index over one panchayath's agents. Adjacency
// is indexed once per load so child lookups are O(1) amortized instead
// of a scan per node.
type Forest struct {
	agents   []models.Agent
	byID     map[uint]int
	children map[uint][]int
	byRole   map[string][]int
}

// NewForest builds the index from a flat agent list. Input order is
// preserved in every query result.
func NewForest(agents []models.Agent) *Forest {
	f := &Forest{
		agents:   agents,
		byID:     make(map[uint]int, len(agents)),
		children: make(map[uint][]int),
		byRole:   make(map[string][]int),
	}
	for i, a := range agents {
		f.byID[a.ID] = i
		f.byRole[a.Role] = append(f.byRole[a.Role], i)
		if a.SuperiorID != nil {
			f.children[*a.SuperiorID] = append(f.children[*a.SuperiorID], i)
		}
	}
	return f
}

// Len returns the number of agents in the forest.
func (f *Forest) Len() int {
	return len(f.agents)
}

// Agent returns the agent with the given id, if loaded.
func (f *Forest) Agent(id uint) (models.Agent, bool) {
	if i, ok := f.byID[id]; ok {
		return f.agents[i], true
	}
	return models.Agent{}, false
}

// ChildrenOf returns all agents whose superior reference equals agentID,
// in stable input order.
func (f *Forest) ChildrenOf(agentID uint) []models.Agent {
	idxs := f.children[agentID]
	out := make([]models.Agent, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, f.agents[i])
	}
	return out
}

// ByRole returns all agents with the given role, in stable input order.
func (f *Forest) ByRole(role string) []models.Agent {
	idxs := f.byRole[role]
	out := make([]models.Agent, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, f.agents[i])
	}
	return out
}

// Roots returns the coordinators, the roots of the forest.
func (f *Forest) Roots() []models.Agent {
	return f.ByRole(models.RoleCoordinator)
}

// Orphans returns non-coordinator agents whose superior reference is
// missing or does not resolve to any loaded agent.
func (f *Forest) Orphans() []models.Agent {
	var out []models.Agent
	for _, a := range f.agents {
		if a.Role == models.RoleCoordinator {
			continue
		}
		if a.SuperiorID == nil {
			out = append(out, a)
			continue
		}
		if _, ok := f.byID[*a.SuperiorID]; !ok {
			out = append(out, a)
		}
	}
	return out
}

// SuperiorName resolves an agent's superior to a display name. A
// dangling reference renders as Unassigned rather than an error.
func (f *Forest) SuperiorName(a models.Agent) string {
	if a.SuperiorID == nil {
		return UnassignedLabel
	}
	sup, ok := f.Agent(*a.SuperiorID)
	if !ok {
		return UnassignedLabel
	}
	return sup.Name
}

// RoleCount is one line of the per-role summary.
type RoleCount struct {
	Role  string `json:"role"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary returns per-role agent counts in hierarchy order.
func (f *Forest) Summary() []RoleCount {
	out := make([]RoleCount, 0, len(roleOrder))
	for _, r := range roleOrder {
		out = append(out, RoleCount{
			Role:  r,
			Label: utils.DisplayRole(r),
			Count: len(f.byRole[r]),
		})
	}
	return out
}

// Node is a nested view of the forest used by hierarchy rendering.
type Node struct {
	Agent    models.Agent `json:"agent"`
	Children []*Node      `json:"children"`
}

// Tree assembles the nested forest rooted at coordinators.
func (f *Forest) Tree() []*Node {
	roots := f.Roots()
	out := make([]*Node, 0, len(roots))
	for _, r := range roots {
		out = append(out, f.subtree(r))
	}
	return out
}

func (f *Forest) subtree(a models.Agent) *Node {
	n := &Node{Agent: a}
	for _, c := range f.ChildrenOf(a.ID) {
		n.Children = append(n.Children, f.subtree(c))
	}
	return n
}

// Walk visits every agent reachable from the coordinators depth-first,
// calling fn with the agent and its 0-based level.
func (f *Forest) Walk(fn func(a models.Agent, level int)) {
	var visit func(a models.Agent, level int)
	visit = func(a models.Agent, level int) {
		fn(a, level)
		for _, c := range f.ChildrenOf(a.ID) {
			visit(c, level+1)
		}
	}
	for _, r := range f.Roots() {
		visit(r, 0)
	}
}
