// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package echo implements 'trapsampler echo', an agent sending every trap it
// receives back to a fixed address.
package echo

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/jchmura/jmeter-snmp/cmd/trapsampler/command"
	"github.com/jchmura/jmeter-snmp/comp/core/config"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/traps"
	"github.com/jchmura/jmeter-snmp/pkg/util/fxutil"
	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

type cliParams struct {
	*command.GlobalParams

	listen    string
	reply     string
	community string
	delay     time.Duration
}

// Commands returns a slice of subcommands for the 'trapsampler' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{
		GlobalParams: globalParams,
	}
	echoCmd := &cobra.Command{
		Use:   "echo",
		Short: "Reflect received traps to a fixed address",
		Long: `Listens for SNMPv2c traps and sends the variables of each one back to the
--reply address, in a new trap with its own sysUpTime and snmpTrapOID.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			reflectorConfig, err := cliParams.reflectorConfig()
			if err != nil {
				return err
			}
			return fxutil.Run(
				fx.Supply(reflectorConfig),
				fx.Supply(config.NewParams(globalParams.ConfFilePath)),
				config.Module(),
				fx.Invoke(startReflector),
			)
		},
	}
	echoCmd.Flags().StringVarP(&cliParams.listen, "listen", "l", "0.0.0.0:1162", "address to receive traps on")
	echoCmd.Flags().StringVar(&cliParams.reply, "reply", "", "host:port replies are sent to")
	echoCmd.Flags().StringVar(&cliParams.community, "community", "public", "community required on received traps and used on replies")
	echoCmd.Flags().DurationVar(&cliParams.delay, "delay", 0, "wait before each reply")
	echoCmd.MarkFlagRequired("reply") //nolint:errcheck

	return []*cobra.Command{echoCmd}
}

func (p *cliParams) reflectorConfig() (traps.ReflectorConfig, error) {
	listenHost, listenPort, err := splitHostPort("--listen", p.listen)
	if err != nil {
		return traps.ReflectorConfig{}, err
	}
	replyHost, replyPort, err := splitHostPort("--reply", p.reply)
	if err != nil {
		return traps.ReflectorConfig{}, err
	}
	if p.delay < 0 {
		return traps.ReflectorConfig{}, fmt.Errorf("--delay must not be negative, got %s", p.delay)
	}
	return traps.ReflectorConfig{
		Listen: traps.ListenerConfig{
			Address:   listenHost,
			Port:      listenPort,
			Community: p.community,
		},
		Reply: traps.SenderConfig{
			Address:   replyHost,
			Port:      replyPort,
			Community: p.community,
			Timeout:   time.Second,
		},
		Delay: p.delay,
	}, nil
}

func splitHostPort(flag, hostport string) (string, uint16, error) {
	host, portText, err := net.SplitHostPort(hostport)
	if err != nil {
		return "", 0, fmt.Errorf("invalid %s address %q: %w", flag, hostport, err)
	}
	port, err := strconv.ParseUint(portText, 10, 16)
	if err != nil || port == 0 {
		return "", 0, fmt.Errorf("invalid %s port %q", flag, portText)
	}
	if host == "" {
		host = "0.0.0.0"
	}
	return host, uint16(port), nil
}

func startReflector(lc fx.Lifecycle, reflectorConfig traps.ReflectorConfig, _ config.Component) {
	var reflector *traps.Reflector
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var err error
			reflector, err = traps.StartReflector(reflectorConfig)
			if err != nil {
				log.Criticalf("Unable to start the reflector: %s", err)
				return err
			}
			log.Infof("Reflecting traps from %s to %s", reflectorConfig.Listen.Addr(), reflectorConfig.Reply.Addr())
			return nil
		},
		OnStop: func(context.Context) error {
			if reflector == nil {
				return nil
			}
			reflector.Close()
			log.Infof("Reflector stopped: %d trap(s) reflected, %d failed", reflector.Reflected(), reflector.Failed())
			return nil
		},
	})
}
