package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func main() {
	urlFlag := flag.String("url", "http://localhost:8080", "server url")
	parserFlag := flag.String("parser", "", "parser id")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: client [flags] <file>")
		os.Exit(2)
	}

	if err := parse(*urlFlag, *parserFlag, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func parse(url, parser, path string) error {
	data, err := os.ReadFile(path)

	if err != nil {
		return err
	}

	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	f, err := w.CreateFormFile("file", filepath.Base(path))

	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		return err
	}

	w.Close()

	endpoint := strings.TrimRight(url, "/") + "/v1/parse"

	if parser != "" {
		endpoint += "?parser=" + parser
	}

	resp, err := http.Post(endpoint, w.FormDataContentType(), &b)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return errors.New(strings.TrimSpace(string(body)))
	}

	var document struct {
		Content string `json:"content"`

		Images map[string]string `json:"images"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&document); err != nil {
		return err
	}

	fmt.Println(document.Content)

	if len(document.Images) > 0 {
		urls := make([]string, 0, len(document.Images))

		for url := range document.Images {
			urls = append(urls, url)
		}

		sort.Strings(urls)

		fmt.Fprintln(os.Stderr)

		for _, url := range urls {
			fmt.Fprintln(os.Stderr, "image:", url)
		}
	}

	return nil
}
