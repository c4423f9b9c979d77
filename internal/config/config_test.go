package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/On-Jun9/AgeTag/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigValidate_RequiredFields는 테스트 코드 동작을 검증하거나 보조합니다.
func TestConfigValidate_RequiredFields(t *testing.T) {
	// 누락된 필수 필드는 해당 field 이름을 가진 ValidationError로 반환되어야 한다.
	tests := []struct {
		cfg   Config
		field string
	}{
		{Config{Name: "Jane", Birth: "01-15-2022"}, "path"},
		{Config{Path: "/photos", Birth: "01-15-2022"}, "name"},
		{Config{Path: "/photos", Name: "Jane"}, "birth"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

// TestConfigValidate_DerivesNameAndBirth는 테스트 코드 동작을 검증하거나 보조합니다.
func TestConfigValidate_DerivesNameAndBirth(t *testing.T) {
	// 검증이 끝나면 파일명용 이름과 생년월일, 기본 확장자가 채워져야 한다.
	cfg := &Config{Path: "/photos", Name: "Jane Doe", Birth: "01-15-2022"}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Jane_Doe", cfg.FileName())
	assert.True(t, cfg.BirthDate().Equal(time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, scanner.DefaultExtensions, cfg.IncludeExtensions)
}

// TestConfigValidate_RejectsUnsafeName는 테스트 코드 동작을 검증하거나 보조합니다.
func TestConfigValidate_RejectsUnsafeName(t *testing.T) {
	cfg := &Config{Path: "/photos", Name: "Jane/Doe", Birth: "01-15-2022"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

// TestConfigValidate_RejectsNonImageExtensions는 테스트 코드 동작을 검증하거나 보조합니다.
func TestConfigValidate_RejectsNonImageExtensions(t *testing.T) {
	// 확장자 목록은 지원 이미지 형식의 부분집합만 허용해야 한다.
	cfg := &Config{Path: "/photos", Name: "Jane", Birth: "01-15-2022", IncludeExtensions: []string{"jpg", "csv"}}

	err := cfg.Validate()
	require.Error(t, err)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "include_extensions", validationErr.Field)

	cfg.IncludeExtensions = []string{".JPG", "heic"}
	require.NoError(t, cfg.Validate())
}

// TestParseBirth는 테스트 코드 동작을 검증하거나 보조합니다.
func TestParseBirth(t *testing.T) {
	// MM-DD-YYYY 형식만 허용하고, 존재하지 않는 날짜나 다른 형식은 거부해야 한다.
	valid := map[string]time.Time{
		"01-15-2022": time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC),
		"1-5-2022":   time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC),
		"02-29-2024": time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range valid {
		got, err := ParseBirth(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(want), in)
	}

	for _, in := range []string{"2022-01-15", "15-01-2022", "02-29-2023", "01/15/2022", "soon"} {
		_, err := ParseBirth(in)
		require.Error(t, err, in)
		assert.True(t, IsValidationError(err), in)
	}
}

// TestLoadBatchFile_YAML는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadBatchFile_YAML(t *testing.T) {
	// YAML 배치 파일의 작업 목록과 상위 설정이 각 작업 설정에 반영되어야 한다.
	content := strings.Join([]string{
		"dry_run: true",
		"include_extensions: [jpg]",
		"tasks:",
		"  - path: /photos/jane",
		"    name: Jane Doe",
		"    birth: 01-15-2022",
		"    recursive: true",
		"  - path: /photos/john",
		"    name: John",
		"    birth: 03-01-2019",
		"    include_extensions: [png, heic]",
	}, "\n")
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	batch, err := LoadBatchFile(path)
	require.NoError(t, err)
	require.Len(t, batch.Tasks, 2)

	first := batch.TaskConfig(0, false)
	assert.Equal(t, "/photos/jane", first.Path)
	assert.True(t, first.Recursive)
	assert.True(t, first.DryRun)
	assert.Equal(t, []string{"jpg"}, first.IncludeExtensions)

	second := batch.TaskConfig(1, false)
	assert.Equal(t, []string{"png", "heic"}, second.IncludeExtensions)
	require.NoError(t, second.Validate())
}

// TestLoadBatchFile_JSON는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadBatchFile_JSON(t *testing.T) {
	// 기존 JSON 형식의 설정 파일도 YAML 파서로 읽을 수 있어야 한다.
	content := `{"tasks": [{"path": "/photos", "name": "Person Name", "birth": "07-04-2020", "recursive": false}]}`
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	batch, err := LoadBatchFile(path)
	require.NoError(t, err)
	require.Len(t, batch.Tasks, 1)

	cfg := batch.TaskConfig(0, true)
	assert.Equal(t, "Person Name", cfg.Name)
	assert.True(t, cfg.DryRun)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Person_Name", cfg.FileName())
}

// TestLoadBatchFile_TOML는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadBatchFile_TOML(t *testing.T) {
	// .toml 확장자는 TOML 디코더로 읽어야 한다.
	content := strings.Join([]string{
		"[[tasks]]",
		`path = "/photos"`,
		`name = "Jane"`,
		`birth = "01-15-2022"`,
		"recursive = true",
	}, "\n")
	path := filepath.Join(t.TempDir(), "batch.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	batch, err := LoadBatchFile(path)
	require.NoError(t, err)
	require.Len(t, batch.Tasks, 1)
	assert.True(t, batch.Tasks[0].Recursive)
	assert.Equal(t, "Jane", batch.Tasks[0].Name)
}

// TestLoadBatchFile_Errors는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadBatchFile_Errors(t *testing.T) {
	// 파일 누락, 문법 오류, 빈 작업 목록은 모두 에러로 보고되어야 한다.
	dir := t.TempDir()

	_, err := LoadBatchFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("tasks: ["), 0644))
	_, err = LoadBatchFile(broken)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("tasks: []"), 0644))
	_, err = LoadBatchFile(empty)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

// TestValidationError_ErrorFormat는 테스트 코드 동작을 검증하거나 보조합니다.
func TestValidationError_ErrorFormat(t *testing.T) {
	// ValidationError.Error()는 "field: message" 형식을 반환해야 한다.
	err := (&ValidationError{Field: "path", Message: "is required"}).Error()
	assert.Equal(t, "path: is required", err)
}
