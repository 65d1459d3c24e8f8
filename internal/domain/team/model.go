package team

import "fmt"

// Team is a Premier League club as published by the FPL API.
type Team struct {
	ID       int64
	Name     string
	Short    string
	Strength int
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
