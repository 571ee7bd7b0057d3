// Copyright 2024 The Ontokit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package command

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ontokit/ontokit/internal/config"
	ontokithttp "github.com/ontokit/ontokit/server/http"
)

func NewHttpCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve an HTTP endpoint on the given host and port.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := mustSetupProfile(cmd)
			defer mustFinishProfile(p)
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			printBackendInfo(cfg)
			s, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.Close()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if file, _ := cmd.Flags().GetString(flagLoad); file != "" {
				typ, _ := cmd.Flags().GetString(flagLoadFormat)
				if err := loadFile(ctx, s, cfg, file, typ); err != nil {
					return err
				}
			}
			api := ontokithttp.New(s, ontokithttp.Config{
				ReadOnly:      cfg.ReadOnly,
				Timeout:       cfg.Timeout,
				Batch:         cfg.LoadBatch,
				Workers:       cfg.Workers,
				MaxIterations: cfg.MaxIterations,
				Calibrate:     cfg.Calibrate,
			})
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return ontokithttp.Serve(ctx, cfg.Host, api)
		},
	}
	cmd.Flags().String("host", "127.0.0.1:64280", "host:port to listen on")
	cmd.Flags().Bool(flagInit, false, "initialize the database before using it")
	cmd.Flags().DurationP("timeout", "t", 30*time.Second, "elapsed time until an individual rule request times out")
	cmd.Flags().Bool("read_only", false, "disable writing via HTTP")
	registerLoadFlags(cmd)
	v.BindPFlag(config.KeyHost, cmd.Flags().Lookup("host"))
	v.BindPFlag(config.KeyTimeout, cmd.Flags().Lookup("timeout"))
	v.BindPFlag(config.KeyReadOnly, cmd.Flags().Lookup("read_only"))
	return cmd
}

const defaultAddress = "http://127.0.0.1:64280"

func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health [address]",
		Short: "Health check HTTP server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := defaultAddress
			if len(args) == 1 {
				address = args[0]
			}
			resp, err := http.Get(strings.TrimSuffix(address, "/") + "/health")
			if err != nil {
				return err
			}
			resp.Body.Close()
			if resp.StatusCode/100 != 2 {
				return fmt.Errorf("unhealthy: %s", resp.Status)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
