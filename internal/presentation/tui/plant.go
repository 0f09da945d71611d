package tui

import "github.com/aretw0/hydroplant/pkg/domain"

var stages = [domain.MaxStage + 1]string{
	`
      
      
   ___
  /___\
`,
	`
      
    .
   _|_
  /___\
`,
	`
    \ /
     |
   __|__
  /_____\
`,
	`
   \\ //
   \\|//
   __|__
  /_____\
`,
	`
   (@@@)
   \\|//
   __|__
  /_____\
`,
}

// Plant returns the ASCII plant for stage, clamped to the known stages.
func Plant(stage int) string {
	if stage < 0 {
		stage = 0
	}
	if stage > domain.MaxStage {
		stage = domain.MaxStage
	}
	return stages[stage]
}
