// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	"github.com/jeranaias/dtbutil/internal/dtb"
	"github.com/jeranaias/dtbutil/internal/trim"
)

// HandleTrim runs `dtbutil trim`.
func HandleTrim(ctx context.Context, env *Env, args Args) error {
	if err := validateInputs(args.Inputs); err != nil {
		return err
	}

	t := &trim.Trimmer{
		Console: env.Console,
		Decider: env.Decider,
		Logger:  env.Logger,
		Options: dtb.Options{
			Backup: env.Config.Trim.Backup,
			Suffix: env.Config.Trim.Suffix,
		},
	}
	_, err := t.Run(ctx, args.Inputs)
	return err
}
