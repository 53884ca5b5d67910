// Package project provides restoration project management services.
package project

import (
	"errors"
	"time"

	"github.com/terrasense/terrasense/internal/estimate"
)

// Repository errors.
var (
	ErrProjectNotFound = errors.New("project not found")
)

// Status represents a project's lifecycle state.
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
)

// ValidStatus reports whether s is a recognized project status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPlanning, StatusActive, StatusCompleted, StatusPaused:
		return true
	}
	return false
}

// Type represents the kind of restoration work a project performs.
type Type string

const (
	TypeReforestation    Type = "reforestation"
	TypeSoilConservation Type = "soil-conservation"
	TypeWatershed        Type = "watershed"
	TypeAgroforestry     Type = "agroforestry"
)

// ValidType reports whether t is a recognized project type.
func ValidType(t Type) bool {
	switch t {
	case TypeReforestation, TypeSoilConservation, TypeWatershed, TypeAgroforestry:
		return true
	}
	return false
}

// Project represents a land restoration project.
type Project struct {
	ID           string
	UserID       string
	Name         string
	Description  *string
	Type         Type
	AreaHectares float64
	LocationName string
	Lat          float64
	Lon          float64

	// Analysis snapshot. Written on creation and replaced by Reanalyze.
	SoilType         string
	SoilPH           float64
	SoilFertility    estimate.FertilityLevel
	ClimateZone      estimate.Zone
	AnnualRainfall   int
	Temperature      float64
	Humidity         float64
	Elevation        float64
	VegetationIndex  float64
	DegradationLevel estimate.DegradationLevel

	RecommendedCrops      []string
	RecommendedTrees      []string
	RestorationTechniques []string
	TimelineMonths        int
	EstimatedBudget       float64

	Status    Status
	Progress  int
	StartDate time.Time
	EndDate   *time.Time

	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastAnalyzedAt time.Time
}
