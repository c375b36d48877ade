package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a config.yaml interactively",
	Long: `Create a shopgate configuration file by answering a few prompts.
Existing files are never overwritten without confirmation.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("out", "config.yaml", "output path for the generated config")
	rootCmd.AddCommand(initCmd)
}

// initFile mirrors the config package layout so the generated YAML loads
// back without translation.
type initFile struct {
	Server struct {
		Port        int    `yaml:"port"`
		APIPrefix   string `yaml:"api_prefix"`
		APIUpstream string `yaml:"api_upstream,omitempty"`
		Env         string `yaml:"env"`
	} `yaml:"server"`
	Assets struct {
		Roots []string `yaml:"roots"`
	} `yaml:"assets"`
	SPA struct {
		Shell         string `yaml:"shell"`
		CanonicalBase string `yaml:"canonical_base,omitempty"`
	} `yaml:"spa"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func runInit(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	if _, err := os.Stat(out); err == nil {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("%s already exists. Overwrite it", out),
			IsConfirm: true,
		}
		if _, promptErr := confirm.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: "8080",
		Validate: func(input string) error {
			n, err := strconv.Atoi(input)
			if err != nil || n < 1 || n > 65535 {
				return errors.New("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}
	port, _ := strconv.Atoi(portStr)

	rootsPrompt := promptui.Prompt{
		Label:   "Asset root directories (comma separated)",
		Default: "./public",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("at least one root is required")
			}
			return nil
		},
	}
	rootsStr, err := rootsPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	var roots []string
	for _, r := range strings.Split(rootsStr, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roots = append(roots, r)
		}
	}

	shellPrompt := promptui.Prompt{
		Label:   "SPA shell document",
		Default: roots[0] + "/index.html",
	}
	shell, err := shellPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	upstreamPrompt := promptui.Prompt{
		Label:   "API upstream URL (empty for none)",
		Default: "",
	}
	upstream, err := upstreamPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	envSelect := promptui.Select{
		Label: "Environment",
		Items: []string{"dev", "staging", "prod"},
	}
	_, env, err := envSelect.Run()
	if err != nil {
		return handlePromptError(err)
	}

	var cfg initFile
	cfg.Server.Port = port
	cfg.Server.APIPrefix = "/api"
	cfg.Server.APIUpstream = strings.TrimSuffix(upstream, "/")
	cfg.Server.Env = env
	cfg.Assets.Roots = roots
	cfg.SPA.Shell = shell
	cfg.Log.Level = "info"

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Wrote %s.\n", out)
	return nil
}

func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
