// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDjango(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "manage.py", "#!/usr/bin/env python\n")
	writeFixture(t, dir, "requirements.txt", "Django==5.0.1\ndjangorestframework==3.14.0\npytest==8.0.0\n")

	result := scan(t, dir)

	assert.Equal(t, Django, result.Framework)
	assert.Equal(t, "python", result.Language)
	assert.InDelta(t, 0.9, result.Confidence, 0.001)
	assert.Equal(t, []string{"pytest"}, result.Tools["testing"])
	assert.Equal(t, []string{"django-rest-framework"}, result.Tools["api"])
}

func TestDetectFastApi(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "requirements.txt", "fastapi>=0.110\nuvicorn\nsqlalchemy==2.0.0\n")
	writeFixture(t, dir, "main.py", "from fastapi import FastAPI\n\napp = FastAPI()\n")

	result := scan(t, dir)

	assert.Equal(t, FastApi, result.Framework)
	assert.InDelta(t, 0.9, result.Confidence, 0.001)
	assert.Contains(t, result.MatchedIndicators, "source import: +0.3 (main.py)")
	assert.Equal(t, []string{"sqlalchemy"}, result.Tools["orm"])
}

func TestDetectFastApiFromPyProject(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "pyproject.toml", `[project]
name = "api"
version = "0.3.0"
dependencies = ["fastapi>=0.110", "pydantic"]
`)

	result := scan(t, dir)

	assert.Equal(t, FastApi, result.Framework)
	assert.Equal(t, "0.3.0", result.Version)
	assert.InDelta(t, 0.6, result.Confidence, 0.001)
}

func TestDetectFlask(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "requirements.txt", "Flask==3.0.0\nflask-sqlalchemy\n")

	result := scan(t, dir)

	assert.Equal(t, Flask, result.Framework)
	assert.InDelta(t, 0.7, result.Confidence, 0.001)
}

func TestDetectPythonMl(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "requirements.txt", "torch==2.1.0\nnumpy\n")
	writeFixture(t, dir, "train.py", "import torch\n")

	result := scan(t, dir)

	assert.Equal(t, PythonML, result.Framework)
	assert.InDelta(t, 0.8, result.Confidence, 0.001)
	assert.Equal(t, []string{"torch"}, result.Tools["ml"])
}

// Django outranks ML evidence in the same tree: a Django app that
// happens to depend on torch is still a Django app.
func TestDjangoOutranksMl(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "manage.py", "#!/usr/bin/env python\n")
	writeFixture(t, dir, "requirements.txt", "django\ntorch\n")

	result := scan(t, dir)
	assert.Equal(t, Django, result.Framework)
}

func TestDetectMalformedPyProject(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "pyproject.toml", "[project\nname =")
	writeFixture(t, dir, "manage.py", "#!/usr/bin/env python\n")

	result := scan(t, dir)

	// Content checks are skipped; manage.py alone still clears the bar.
	assert.Equal(t, Django, result.Framework)
	assert.InDelta(t, 0.8, result.Confidence, 0.001)
}

func TestRequirementName(t *testing.T) {
	cases := map[string]string{
		"Django==5.0.1":           "django",
		"fastapi>=0.110":          "fastapi",
		"uvicorn[standard]":       "uvicorn",
		"torch~=2.1":              "torch",
		"requests ; python<'3.9'": "requests",
		"# a comment":             "",
		"":                        "",
	}

	for input, expected := range cases {
		assert.Equal(t, expected, requirementName(input), "input %q", input)
	}
}
