package main

import (
	"testing"

	"github.com/urfave/cli/v2"
)

func TestBookMyShowCommand_DefaultCity(t *testing.T) {
	// GIVEN
	cmd := BookMyShowCommand()

	// WHEN
	var city *cli.StringFlag
	for _, f := range cmd.Flags {
		if sf, ok := f.(*cli.StringFlag); ok && sf.Name == "city" {
			city = sf
		}
	}

	// THEN
	if city == nil {
		t.Fatal("Expected a city flag")
	}
	if city.Value != "Kolkata" {
		t.Errorf("Expected default city Kolkata, got %q", city.Value)
	}
}
