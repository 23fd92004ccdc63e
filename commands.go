package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"playfair/internal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// app carries the resolved settings and I/O for one CLI invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	noColor    bool

	settings internal.Settings
	log      *zap.Logger
}

// flagKeys maps flag names to their koanf keys.
var flagKeys = map[string]string{
	"omit":           "omit",
	"map-to":         "map_to",
	"nonce":          "nonce",
	"direction":      "direction",
	"group":          "group",
	"kdf":            "kdf",
	"kdf-mem":        "kdf_mem_mb",
	"kdf-time":       "kdf_time",
	"kdf-parallel":   "kdf_parallel",
	"allow-weak-key": "allow_weak",
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "playfair [message ...]",
		Short: "Playfair digraph cipher",
		Long: internal.Banner(version) + `

Encode or decode text with the classical Playfair cipher. The direction
defaults to encode and can be set with --direction, PLAYFAIR_DIRECTION or
the config file; the encode and decode subcommands fix it explicitly.

Examples:
  playfair encode -k "playfair example" hide the gold in the tree stump
  playfair decode -k "playfair example" BMODZBXDNABEKUDMUIXMMOUVIF
  playfair square -k monarchy
  echo "attack at dawn" | playfair encode -k monarchy`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := internal.ParseDirection(a.settings.Direction)
			if err != nil {
				return err
			}
			return a.runCipher(cmd, args, d)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Log the key square and every digraph to stderr")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output (TTY-safe)")
	pf.String("omit", "J", "Letter left out of the key square")
	pf.String("map-to", "I", "Letter the omitted letter folds into (\"none\" deletes it)")
	pf.String("nonce", "X", "Filler letter for doubled letters and odd length")

	addCipherFlags(root)
	root.Flags().String("direction", "encode", "encode or decode")

	root.AddCommand(
		a.directionCmd(internal.Encode),
		a.directionCmd(internal.Decode),
		a.squareCmd(),
		a.keygenCmd(),
		a.selfTestCmd(),
	)
	return root
}

// setup resolves settings and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command) error {
	if a.noColor {
		internal.SetColorEnabled(false)
	}
	a.log = internal.NewLogger(a.stderr, a.verbose)

	flags := map[string]any{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			flags[key] = f.Value.String()
		}
	})
	s, err := internal.LoadSettings(a.configPath, flags)
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrInvalidOption, err)
	}
	a.settings = s
	a.log.Debug("settings resolved",
		zap.String("config", a.configPath),
		zap.String("omit", s.Omit),
		zap.String("map_to", s.MapTo),
		zap.String("nonce", s.Nonce),
		zap.String("direction", s.Direction),
	)
	return nil
}

func addCipherFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("key", "k", "", "Passphrase for the key square")
	f.Bool("prompt", false, "Prompt for the passphrase (no echo); overrides --key")
	f.Bool("mask", true, "With --prompt, show * while typing (use --mask=false to disable)")
	f.Int("group", 2, "Letters per output group (0 prints one block)")
	f.Bool("qr", false, "Also print the result as a QR code")
	f.Bool("batch", false, "Treat every argument as a separate message")
	f.Bool("verify", false, "Encode only: decode the result and compare before printing")
	f.Bool("strip-nonces", false, "Decode only: drop nonces that look inserted")
}

func (a *app) directionCmd(d internal.Direction) *cobra.Command {
	short := "Encrypt plaintext"
	if d == internal.Decode {
		short = "Decrypt ciphertext"
	}
	cmd := &cobra.Command{
		Use:   d.String() + " [message ...]",
		Short: short,
		Long: short + `.

The message is taken from the arguments, or from stdin when no arguments are
given. Anything that is not a letter is ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCipher(cmd, args, d)
		},
	}
	addCipherFlags(cmd)
	return cmd
}

// passphrase returns the key from --prompt or --key.
func (a *app) passphrase(cmd *cobra.Command, confirm bool) (string, error) {
	if prompt, _ := cmd.Flags().GetBool("prompt"); prompt {
		mask, _ := cmd.Flags().GetBool("mask")
		return internal.PromptForPassphrase(mask, confirm)
	}
	key, _ := cmd.Flags().GetString("key")
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: passphrase required (use --key or --prompt)", internal.ErrEmptyInput)
	}
	return key, nil
}

func (a *app) cipher(cmd *cobra.Command, confirm bool) (*internal.Cipher, error) {
	opts, err := a.settings.Options()
	if err != nil {
		return nil, err
	}
	key, err := a.passphrase(cmd, confirm)
	if err != nil {
		return nil, err
	}
	c, err := internal.New(key, opts)
	if err != nil {
		return nil, err
	}
	a.log.Debug("key square built",
		zap.Int("passphrase_len", len(key)),
		zap.Strings("rows", c.Grid().Rows()),
	)
	if a.verbose {
		c = c.WithTrace(internal.TraceLogger(a.log))
	}
	return c, nil
}

// messages returns the inputs to transform: one joined message, every
// argument on its own with --batch, or stdin when there are no arguments.
func (a *app) messages(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) == 0 {
		if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, fmt.Errorf("%w: no message given", internal.ErrEmptyInput)
		}
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		args = []string{string(b)}
	}
	if batch, _ := cmd.Flags().GetBool("batch"); batch {
		return args, nil
	}
	return []string{strings.Join(args, " ")}, nil
}

func (a *app) runCipher(cmd *cobra.Command, args []string, d internal.Direction) error {
	msgs, err := a.messages(cmd, args)
	if err != nil {
		return err
	}
	// Prompted passphrases are asked twice when encrypting.
	c, err := a.cipher(cmd, d == internal.Encode)
	if err != nil {
		return err
	}

	var results []string
	verify, _ := cmd.Flags().GetBool("verify")
	switch {
	case verify && d == internal.Encode:
		results = make([]string, len(msgs))
		for i, m := range msgs {
			if results[i], err = internal.EncodeVerified(c, m); err != nil {
				return err
			}
		}
	case len(msgs) == 1:
		res, err := c.Run(msgs[0], d)
		if err != nil {
			return err
		}
		results = []string{res}
	default:
		if results, err = c.TransformAll(context.Background(), msgs, d); err != nil {
			return err
		}
	}

	if strip, _ := cmd.Flags().GetBool("strip-nonces"); strip && d == internal.Decode {
		for i := range results {
			results[i] = internal.StripNonces(results[i], c.Options().Nonce)
		}
	}

	group := a.settings.Group
	showQR, _ := cmd.Flags().GetBool("qr")
	for _, res := range results {
		fmt.Fprintln(a.stdout, internal.GroupLetters(res, group, " "))
		if showQR {
			if err := internal.RenderQR(a.stdout, res, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *app) squareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "square",
		Short: "Print the key square for a passphrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cipher(cmd, false)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, internal.Style("Key square:", internal.Bold, internal.Blue))
			for _, line := range internal.FormatSquare(c.Grid()) {
				fmt.Fprintln(a.stdout, line)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringP("key", "k", "", "Passphrase for the key square")
	f.Bool("prompt", false, "Prompt for the passphrase (no echo); overrides --key")
	f.Bool("mask", true, "With --prompt, show * while typing (use --mask=false to disable)")
	return cmd
}

func (a *app) keygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen [seed ...]",
		Short: "Generate a shuffled 25-letter passphrase",
		Long: `Generate a passphrase that is a full permutation of the working alphabet.

Without a seed the letters are shuffled with crypto/rand. With a seed the
result is deterministic: the seed is stretched with Argon2id (or SHA-256 with
--kdf none) and drives the shuffle.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.settings.Options()
			if err != nil {
				return err
			}
			seed := strings.Join(args, " ")
			phrase, err := internal.GenerateKeyPhrase(seed, opts.Alphabet, a.settings.KeyPolicy())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, phrase)
			if a.verbose {
				g, err := internal.BuildKeySquare(phrase, opts.Alphabet)
				if err != nil {
					return err
				}
				for _, line := range internal.FormatSquare(g) {
					fmt.Fprintln(a.stderr, line)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.String("kdf", "argon2id", "Seed stretching: argon2id or none")
	f.Uint32("kdf-mem", 64, "Argon2id memory in MB")
	f.Uint32("kdf-time", 3, "Argon2id passes")
	f.Uint8("kdf-parallel", 1, "Argon2id parallelism")
	f.Bool("allow-weak-key", false, "Accept short seeds")
	return cmd
}

func (a *app) selfTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Round-trip random keys and messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.settings.Options()
			if err != nil {
				return err
			}
			rounds, _ := cmd.Flags().GetInt("rounds")
			seed, _ := cmd.Flags().GetInt64("seed")
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			fmt.Fprintln(a.stdout, internal.Style("== Self-test ==", internal.Bold))
			if failed := internal.RunSelfTest(a.stdout, opts, rounds, rand.New(rand.NewSource(seed))); failed > 0 {
				return fmt.Errorf("%w: %d of %d self-test rounds failed (seed %d)", internal.ErrRoundTrip, failed, rounds, seed)
			}
			return nil
		},
	}
	cmd.Flags().Int("rounds", 4, "Number of random rounds")
	cmd.Flags().Int64("seed", 0, "PRNG seed for reproducible runs (0 uses the clock)")
	return cmd
}
