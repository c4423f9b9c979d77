package planner

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/On-Jun9/AgeTag/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTask는 테스트 코드 동작을 검증하거나 보조합니다.
func newTask(path string, y int, m time.Month, d int, age string) types.RenameTask {
	return types.RenameTask{
		Source:  types.FileEntry{Path: path, Name: filepath.Base(path)},
		Capture: types.CaptureDate{Year: y, Month: m, Day: d},
		Age:     age,
	}
}

// TestPlanner_Plan_AssignsSequentialIDsPerDate는 테스트 코드 동작을 검증하거나 보조합니다.
func TestPlanner_Plan_AssignsSequentialIDsPerDate(t *testing.T) {
	// 같은 날짜의 파일은 001부터 순서대로, 다른 날짜는 별도 카운터를 사용해야 한다.
	p := New(afero.NewMemMapFs(), "Jane_Doe")

	var got []string
	for _, task := range []types.RenameTask{
		newTask("/photos/a.JPG", 2022, 1, 18, "3days"),
		newTask("/photos/b.jpg", 2022, 1, 18, "3days"),
		newTask("/photos/c.png", 2022, 3, 1, "1months"),
		newTask("/photos/d.jpg", 2022, 1, 18, "3days"),
	} {
		planned, err := p.Plan(task)
		require.NoError(t, err)
		assert.Empty(t, planned.Action)
		got = append(got, filepath.Base(planned.DestPath))
	}

	assert.Equal(t, []string{
		"Jane_Doe_20220118_3days_001.jpg",
		"Jane_Doe_20220118_3days_002.jpg",
		"Jane_Doe_20220301_1months_001.png",
		"Jane_Doe_20220118_3days_003.jpg",
	}, got)
}

// TestPlanner_Plan_SkipsExistingFiles는 테스트 코드 동작을 검증하거나 보조합니다.
func TestPlanner_Plan_SkipsExistingFiles(t *testing.T) {
	// 디스크에 이미 존재하는 이름은 건너뛰고 카운터를 증가시켜야 한다.
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/photos/Jane_20220115_0days_001.jpg", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/photos/Jane_20220115_0days_002.jpg", []byte("x"), 0644))

	p := New(fs, "Jane")
	first, err := p.Plan(newTask("/photos/new1.jpg", 2022, 1, 15, "0days"))
	require.NoError(t, err)
	second, err := p.Plan(newTask("/photos/new2.jpg", 2022, 1, 15, "0days"))
	require.NoError(t, err)

	assert.Equal(t, "/photos/Jane_20220115_0days_003.jpg", first.DestPath)
	assert.Equal(t, "/photos/Jane_20220115_0days_004.jpg", second.DestPath)
	assert.True(t, p.Claimed(first.DestPath))
}

// TestPlanner_Plan_ClaimedPathsArePerDirectory는 테스트 코드 동작을 검증하거나 보조합니다.
func TestPlanner_Plan_ClaimedPathsArePerDirectory(t *testing.T) {
	// 카운터는 날짜 단위로 공유되지만 충돌 검사는 파일이 위치한 디렉터리 기준이어야 한다.
	p := New(afero.NewMemMapFs(), "Jane")

	a, err := p.Plan(newTask("/photos/a.jpg", 2022, 1, 15, "0days"))
	require.NoError(t, err)
	b, err := p.Plan(newTask("/photos/sub/b.jpg", 2022, 1, 15, "0days"))
	require.NoError(t, err)

	assert.Equal(t, "/photos/Jane_20220115_0days_001.jpg", a.DestPath)
	assert.Equal(t, "/photos/sub/Jane_20220115_0days_002.jpg", b.DestPath)
}

// TestPlanner_Plan_NeverReturnsReservedPath는 테스트 코드 동작을 검증하거나 보조합니다.
func TestPlanner_Plan_NeverReturnsReservedPath(t *testing.T) {
	// 같은 실행의 원본 경로로 예약된 이름은 목적지로 선택되면 안 된다.
	p := New(afero.NewMemMapFs(), "Jane")
	p.Reserve("/photos/Jane_20220115_0days_001.jpg")

	planned, err := p.Plan(newTask("/photos/a.jpg", 2022, 1, 15, "0days"))
	require.NoError(t, err)
	assert.Equal(t, "/photos/Jane_20220115_0days_002.jpg", planned.DestPath)
}

// TestPlanner_Plan_AlreadyNamedFileIsSkipped는 테스트 코드 동작을 검증하거나 보조합니다.
func TestPlanner_Plan_AlreadyNamedFileIsSkipped(t *testing.T) {
	// 이미 계획된 이름을 가진 파일은 이름 변경 없이 skipped로 표시되어야 한다.
	fs := afero.NewMemMapFs()
	path := "/photos/Jane_20220115_0days_001.jpg"
	require.NoError(t, afero.WriteFile(fs, path, []byte("x"), 0644))

	p := New(fs, "Jane")
	p.Reserve(path)
	planned, err := p.Plan(newTask(path, 2022, 1, 15, "0days"))
	require.NoError(t, err)

	assert.Equal(t, types.RenameActionSkipped, planned.Action)
	assert.Equal(t, path, planned.DestPath)

	next, err := p.Plan(newTask("/photos/other.jpg", 2022, 1, 15, "0days"))
	require.NoError(t, err)
	assert.Equal(t, "/photos/Jane_20220115_0days_002.jpg", next.DestPath)
}

// TestPlanner_Plan_IDsWidenPast999는 테스트 코드 동작을 검증하거나 보조합니다.
func TestPlanner_Plan_IDsWidenPast999(t *testing.T) {
	// 카운터는 상한이 없으므로 999 이후에는 4자리로 늘어나야 한다.
	p := New(afero.NewMemMapFs(), "Jane")
	p.counters["20220115"] = 1000

	planned, err := p.Plan(newTask("/photos/a.jpg", 2022, 1, 15, "0days"))
	require.NoError(t, err)
	assert.Equal(t, "Jane_20220115_0days_1000.jpg", filepath.Base(planned.DestPath))
}

// TestSanitizeName는 테스트 코드 동작을 검증하거나 보조합니다.
func TestSanitizeName(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "Jane Doe", want: "Jane_Doe"},
		{raw: "  Jane  ", want: "Jane"},
		{raw: "Zoë Ann Smith", want: "Zoë_Ann_Smith"},
		{raw: "", wantErr: true},
		{raw: "   ", wantErr: true},
		{raw: "a/b", wantErr: true},
		{raw: `a\b`, wantErr: true},
		{raw: "what?", wantErr: true},
		{raw: "tab\there", wantErr: true},
		{raw: "..", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := SanitizeName(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidName))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
