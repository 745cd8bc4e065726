// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package detect

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFlutterWithDependencyEntry(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "pubspec.yaml", `name: shop_app
version: 1.2.0+45
dependencies:
  flutter:
    sdk: flutter
  provider: ^6.0.0
dev_dependencies:
  flutter_test:
    sdk: flutter
`)
	writeFixture(t, dir, filepath.Join("lib", "main.dart"), "void main() {}\n")

	result := scan(t, dir)

	assert.Equal(t, Flutter, result.Framework)
	assert.Equal(t, "dart", result.Language)
	assert.Equal(t, "1.2.0", result.Version)
	assert.InDelta(t, 0.9, result.Confidence, 0.001)
	assert.Equal(t, []string{"provider"}, result.Tools["state"])
	assert.Equal(t, []string{"flutter_test"}, result.Tools["testing"])
}

// The flutter marker can also live as a top-level section instead of a
// dependency entry; both spellings carry the same weight.
func TestDetectFlutterWithTopLevelSection(t *testing.T) {
	depsForm := t.TempDir()
	writeFixture(t, depsForm, "pubspec.yaml", `name: app
dependencies:
  flutter:
    sdk: flutter
`)

	sectionForm := t.TempDir()
	writeFixture(t, sectionForm, "pubspec.yaml", `name: app
flutter:
  uses-material-design: true
`)

	fromDeps := scan(t, depsForm)
	fromSection := scan(t, sectionForm)

	assert.Equal(t, Flutter, fromDeps.Framework)
	assert.Equal(t, Flutter, fromSection.Framework)
	assert.Equal(t, fromDeps.Confidence, fromSection.Confidence)
}

func TestDetectFlutterPlatformDirs(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "pubspec.yaml", "name: app\ndependencies:\n  flutter:\n    sdk: flutter\n")
	writeFixture(t, dir, filepath.Join("android", "build.gradle"), "")
	writeFixture(t, dir, filepath.Join("ios", "Podfile"), "")

	result := scan(t, dir)

	assert.InDelta(t, 0.9, result.Confidence, 0.001)
	assert.True(t, result.Structure["android"])
	assert.True(t, result.Structure["ios"])
}

func TestDetectFlutterCorruptPubspec(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "pubspec.yaml", "name: [unclosed\n  bad yaml: :\n")

	result := scan(t, dir)

	// Existence alone is below the threshold; the candidate is ranked
	// but not selected.
	assert.True(t, result.IsUnknown())
	assert.Len(t, result.Ranked, 1)
	assert.InDelta(t, 0.3, result.Ranked[0].Confidence, 0.001)
}
