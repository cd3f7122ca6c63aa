package services

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"blog-cms/pkg/config"
)

// executeGitWithToken rewrites the configured remote into a token
// authenticated URL before running git, and scrubs the token from the
// returned log.
func executeGitWithToken(dir, token string, args ...string) (error, string) {
	cmdGetURL := exec.Command("git", "remote", "get-url", config.GitRemote)
	cmdGetURL.Dir = dir
	outURL, err := cmdGetURL.Output()
	if err != nil {
		return err, "failed to get remote url"
	}

	remoteURL := strings.TrimSpace(string(outURL))
	u, err := url.Parse(remoteURL)
	if err != nil {
		return err, "invalid remote url"
	}
	u.User = url.UserPassword("oauth2", token)
	authenticatedURL := u.String()

	newArgs := make([]string, len(args))
	copy(newArgs, args)
	for i, v := range newArgs {
		if v == config.GitRemote {
			newArgs[i] = authenticatedURL
		}
	}

	cmd := exec.Command("git", newArgs...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()

	safeLog := strings.ReplaceAll(string(output), token, "***")
	safeLog = strings.ReplaceAll(safeLog, authenticatedURL, remoteURL)
	return err, safeLog
}

// SyncRepo pulls the latest content from the remote.
func SyncRepo(token string) (error, string) {
	err, gitLog := executeGitWithToken(config.RepoPath, token, "pull", config.GitRemote, config.GitBranch)
	if err == nil {
		InvalidateCache()
		log.Info().Str("branch", config.GitBranch).Msg("content synced")
	}
	return err, gitLog
}

// PublishRepo commits every pending content change and pushes it, handing the
// corpus back to the external generator's deployment pipeline.
func PublishRepo(token string) (error, string) {
	addCmd := exec.Command("git", "add", ".")
	addCmd.Dir = config.RepoPath
	if out, err := addCmd.CombinedOutput(); err != nil {
		return err, string(out)
	}

	msg := fmt.Sprintf("Update content: %s", time.Now().Format("2006-01-02 15:04:05"))
	commitCmd := exec.Command("git",
		"-c", "user.name="+config.GitUserName,
		"-c", "user.email="+config.GitUserEmail,
		"commit", "-m", msg,
	)
	commitCmd.Dir = config.RepoPath
	// A clean tree makes commit exit non-zero; push regardless.
	_ = commitCmd.Run()

	err, gitLog := executeGitWithToken(config.RepoPath, token, "push", config.GitRemote, config.GitBranch)
	if err == nil {
		InvalidateCache()
		log.Info().Str("branch", config.GitBranch).Msg("content published")
	}
	return err, gitLog
}

// Diff reports the pending changes for a post: first against the saved file
// (unsaved editor state), then against HEAD (uncommitted state).
func Diff(savedPath, editorPath, repoRelPath string) (string, string) {
	cmd := exec.Command("git", "diff", "--no-index", savedPath, editorPath)
	output, err := cmd.CombinedOutput()

	// Exit code 1 means the files differ; anything else (including git not
	// launching at all) is not a diff.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		diffStr := string(output)
		diffStr = strings.ReplaceAll(diffStr, savedPath, "Saved (Normalized)")
		diffStr = strings.ReplaceAll(diffStr, editorPath, "Editor")
		return diffStr, "unsaved"
	}

	cmdGit := exec.Command("git", "diff", "HEAD", "--", repoRelPath)
	cmdGit.Dir = config.RepoPath
	outGit, _ := cmdGit.CombinedOutput()

	if len(outGit) > 0 {
		return string(outGit), "git"
	}
	return "", "none"
}
