// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	"github.com/jeranaias/dtbutil/internal/convert"
)

// HandleToDTS runs `dtbutil todts`.
func (a *App) HandleToDTS(ctx context.Context, env *Env, args Args) error {
	if err := validateInputs(args.Inputs); err != nil {
		return err
	}

	c := &convert.Converter{
		Runner:  a.NewRunner(env.Config.DTC.Path, env.Logger),
		Console: env.Console,
		Decider: env.Decider,
		Logger:  env.Logger,
	}
	_, err := c.Run(ctx, args.Inputs, args.OutPath)
	return err
}
