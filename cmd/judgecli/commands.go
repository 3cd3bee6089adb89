package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"judge_client/internal/client/history"
	"judge_client/internal/client/judgeapi"
	"judge_client/internal/client/submission"
	"judge_client/internal/domain/model"
)

func (a *app) commands() []*cli.Command {
	credentialFlags := []cli.Flag{
		&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "account email", Required: true},
		&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "account password (read from stdin when omitted)"},
	}

	return []*cli.Command{
		{
			Name:   "login",
			Usage:  "sign in and remember the session",
			Flags:  credentialFlags,
			Action: a.login,
		},
		{
			Name:   "signup",
			Usage:  "create an account and sign in",
			Flags:  credentialFlags,
			Action: a.signup,
		},
		{
			Name:   "logout",
			Usage:  "forget the stored session",
			Action: a.logout,
		},
		{
			Name:   "whoami",
			Usage:  "show the signed-in account",
			Action: a.whoami,
		},
		{
			Name:  "problems",
			Usage: "list problems",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "category", Aliases: []string{"c"}},
				&cli.StringFlag{Name: "difficulty", Aliases: []string{"d"}, Usage: "easy, medium or hard"},
				&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "match titles containing this text"},
			},
			Action: a.problems,
		},
		{
			Name:      "problem",
			Usage:     "show a problem statement",
			ArgsUsage: "<problem-id>",
			Action:    a.problem,
		},
		{
			Name:   "categories",
			Usage:  "list problem categories",
			Action: a.categories,
		},
		{
			Name:   "tags",
			Usage:  "list problem tags",
			Action: a.tags,
		},
		{
			Name:   "stats",
			Usage:  "show catalogue statistics",
			Action: a.stats,
		},
		{
			Name:   "overview",
			Usage:  "show judge health, statistics and categories at once",
			Action: a.overview,
		},
		{
			Name:  "languages",
			Usage: "list accepted languages",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "starter", Usage: "print the starter code for this language"},
			},
			Action: a.languages,
		},
		{
			Name:      "submit",
			Usage:     "submit a solution and wait for the verdict",
			ArgsUsage: "<problem-id>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "lang", Aliases: []string{"l"}, Usage: "language id or extension (defaults to the file extension)"},
				&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "source file, - for stdin"},
				&cli.BoolFlag{Name: "starter", Usage: "submit the language's starter code"},
			},
			Action: a.submit,
		},
		{
			Name:  "history",
			Usage: "list your past submissions",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "page", Usage: "1-based page number", Value: 1},
				&cli.IntFlag{Name: "size", Usage: "submissions per page"},
				&cli.BoolFlag{Name: "all", Usage: "walk every page"},
			},
			Action: a.history,
		},
		{
			Name:      "submission",
			Usage:     "show one of your submissions",
			ArgsUsage: "<submission-id>",
			Action:    a.submission,
		},
		{
			Name:   "health",
			Usage:  "check the judge",
			Action: a.health,
		},
	}
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("expected exactly one argument: %s", name)
	}
	return cmd.Args().First(), nil
}

func readPassword(cmd *cli.Command, in io.Reader) (string, error) {
	if p := cmd.String("password"); p != "" {
		return p, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) authenticate(ctx context.Context, cmd *cli.Command, signup bool) error {
	password, err := readPassword(cmd, cmd.Root().Reader)
	if err != nil {
		return err
	}
	req := model.AuthRequest{Email: cmd.String("email"), Password: password}

	var cred model.Credential
	if signup {
		cred, err = a.client.Signup(ctx, req)
	} else {
		cred, err = a.client.Login(ctx, req)
	}
	if err != nil {
		return err
	}
	a.store.Establish(ctx, cred)
	fmt.Fprintf(a.out, "Signed in as %s\n", cred.Email)
	return nil
}

func (a *app) login(ctx context.Context, cmd *cli.Command) error {
	return a.authenticate(ctx, cmd, false)
}

func (a *app) signup(ctx context.Context, cmd *cli.Command) error {
	return a.authenticate(ctx, cmd, true)
}

func (a *app) logout(ctx context.Context, cmd *cli.Command) error {
	a.store.Clear(ctx)
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *app) whoami(ctx context.Context, cmd *cli.Command) error {
	cred, ok := a.store.Current()
	if !ok {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s (user %d)\n", cred.Email, cred.UserID)
	return nil
}

func (a *app) problems(ctx context.Context, cmd *cli.Command) error {
	problems, err := a.client.ListProblems(ctx, judgeapi.ProblemFilter{
		Category:   cmd.String("category"),
		Difficulty: cmd.String("difficulty"),
		Search:     cmd.String("search"),
	})
	if err != nil {
		return err
	}
	renderProblems(a.out, problems)
	return nil
}

func (a *app) problem(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "<problem-id>")
	if err != nil {
		return err
	}
	p, err := a.client.GetProblem(ctx, id)
	if err != nil {
		return err
	}
	renderProblem(a.out, p)
	return nil
}

func sortedSet(set mapset.Set[string]) []string {
	values := set.ToSlice()
	sort.Strings(values)
	return values
}

func (a *app) categories(ctx context.Context, cmd *cli.Command) error {
	categories, err := a.client.ListCategories(ctx)
	if err != nil {
		return err
	}
	renderList(a.out, "Categories", sortedSet(categories))
	return nil
}

func (a *app) tags(ctx context.Context, cmd *cli.Command) error {
	tags, err := a.client.ListTags(ctx)
	if err != nil {
		return err
	}
	renderList(a.out, "Tags", sortedSet(tags))
	return nil
}

func (a *app) stats(ctx context.Context, cmd *cli.Command) error {
	stats, err := a.client.GetStats(ctx)
	if err != nil {
		return err
	}
	renderStats(a.out, stats)
	return nil
}

// overview fetches independent reads concurrently and fails on the first
// error.
func (a *app) overview(ctx context.Context, cmd *cli.Command) error {
	var (
		health     *model.Health
		stats      *model.Stats
		categories mapset.Set[string]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		health, err = a.client.Health(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats, err = a.client.GetStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = a.client.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	renderHealth(a.out, health)
	renderStats(a.out, stats)
	renderList(a.out, "Categories", sortedSet(categories))
	return nil
}

func (a *app) languages(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("starter")
	if name == "" {
		renderLanguages(a.out)
		return nil
	}
	lang, err := model.ParseLanguage(name)
	if err != nil {
		return err
	}
	info, _ := lang.Info()
	fmt.Fprint(a.out, info.StarterCode)
	return nil
}

// readSource returns the code to submit and the language, inferred from the
// file extension when --lang is not given.
func readSource(cmd *cli.Command, in io.Reader) (string, model.Language, error) {
	var lang model.Language
	if name := cmd.String("lang"); name != "" {
		parsed, err := model.ParseLanguage(name)
		if err != nil {
			return "", "", err
		}
		lang = parsed
	}

	if cmd.Bool("starter") {
		if lang == "" {
			return "", "", errors.New("--starter needs --lang")
		}
		info, _ := lang.Info()
		return info.StarterCode, lang, nil
	}

	path := cmd.String("file")
	switch path {
	case "":
		return "", "", errors.New("give a source file with --file, or --starter")
	case "-":
		if lang == "" {
			return "", "", errors.New("reading from stdin needs --lang")
		}
		code, err := io.ReadAll(in)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(code), lang, nil
	}

	if lang == "" {
		parsed, err := model.ParseLanguage(strings.TrimPrefix(filepath.Ext(path), "."))
		if err != nil {
			return "", "", fmt.Errorf("cannot infer the language of %s, use --lang", path)
		}
		lang = parsed
	}
	code, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading source: %w", err)
	}
	return string(code), lang, nil
}

func (a *app) submit(ctx context.Context, cmd *cli.Command) error {
	problemID, err := requireArg(cmd, "<problem-id>")
	if err != nil {
		return err
	}
	code, lang, err := readSource(cmd, cmd.Root().Reader)
	if err != nil {
		return err
	}

	controller := submission.NewController(problemID, a.client, a.logger)
	fmt.Fprintf(a.out, "Submitting %s solution for %s...\n", languageName(lang), problemID)
	outcome, err := controller.Submit(ctx, code, lang)
	if err != nil {
		return err
	}
	renderResult(a.out, outcome.Display())
	return nil
}

func (a *app) history(ctx context.Context, cmd *cli.Command) error {
	if _, ok := a.store.Current(); !ok {
		fmt.Fprintln(a.out, "Not signed in; the judge will ask for a login.")
	}
	size := cmd.Int("size")
	if size <= 0 {
		size = a.cfg.HistoryPageSize
	}
	page := cmd.Int("page")
	if page < 1 {
		return errors.New("--page starts at 1")
	}

	paginator := history.NewPaginator(a.client, size, a.logger)
	current, err := paginator.Load(ctx, page-1, size)
	if err != nil {
		return err
	}
	renderHistory(a.out, current)

	if !cmd.Bool("all") {
		return nil
	}
	for {
		next, ok, err := paginator.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		renderHistory(a.out, next)
	}
}

func (a *app) submission(ctx context.Context, cmd *cli.Command) error {
	arg, err := requireArg(cmd, "<submission-id>")
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid submission id %q", arg)
	}
	item, err := a.client.GetSubmission(ctx, id)
	if err != nil {
		return err
	}
	renderSubmission(a.out, item)
	return nil
}

func (a *app) health(ctx context.Context, cmd *cli.Command) error {
	h, err := a.client.Health(ctx)
	if err != nil {
		return err
	}
	renderHealth(a.out, h)
	return nil
}
