// Package types contains common types used across the application
package types

import "github.com/okian/skillgraph/internal/domain/model"

// Graph is the finished output of one pipeline run.
type Graph struct {
	Skills        []model.SkillNode
	Relationships []model.Edge
}

// UnitRoots lists the root nodes (zero in-degree) of one unit.
type UnitRoots struct {
	UnitID   string
	UnitName string
	Roots    []model.SkillNode
}
