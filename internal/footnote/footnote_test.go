package footnote

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_InlinesDefinition(t *testing.T) {
	in := "Quốc hội ban hành Luật A[1].\nabc\n[1] Luật Doanh nghiệp số 59/2020/QH14."

	res := Resolve(in, SecondOccurrence)

	assert.Equal(t, "Quốc hội ban hành Luật A[Luật Doanh nghiệp số 59/2020/QH14].\nabc", res.Text)
	assert.Equal(t, Table{"1": "Luật Doanh nghiệp số 59/2020/QH14"}, res.Table)
	assert.Empty(t, res.Unresolved)
}

func TestResolve_MultiLineDefinition(t *testing.T) {
	in := strings.Join([]string{
		"Điều 1. Áp dụng[1] và[2]",
		"",
		"[1] Được sửa đổi bởi",
		"Luật số 03/2022/QH15.",
		"[2] Bãi bỏ.",
		"",
		"Kết thúc",
	}, "\n")

	res := Resolve(in, SecondOccurrence)

	assert.Equal(t, "Điều 1. Áp dụng[Được sửa đổi bởi Luật số 03/2022/QH15] và[Bãi bỏ]\n\n\nKết thúc", res.Text)
	assert.Len(t, res.Table, 2)
}

func TestResolve_SingleOccurrenceUntouched(t *testing.T) {
	in := "Khoản [3] không có chú thích."
	res := Resolve(in, SecondOccurrence)
	assert.Equal(t, in, res.Text)
	assert.Equal(t, []string{"3"}, res.Unresolved)
	assert.Empty(t, res.Table)
}

func TestResolve_LaterOccurrencesUntouched(t *testing.T) {
	in := "A[1]\n[1] Chú thích.\n\nB[1]"
	res := Resolve(in, SecondOccurrence)
	assert.Equal(t, "A[Chú thích]\n\nB[1]", res.Text)
}

func TestResolve_SecondOccurrenceNotALineMarker(t *testing.T) {
	in := "A[1] và B[1]\ncòn lại[1]"
	res := Resolve(in, SecondOccurrence)
	assert.Equal(t, in, res.Text)
	assert.Equal(t, []string{"1"}, res.Unresolved)
}

func TestResolve_DefinitionBeforeReference(t *testing.T) {
	in := "[1] Ghi chú đầu trang.\n\nĐiều 1. Nội dung[1]"

	second := Resolve(in, SecondOccurrence)
	assert.Equal(t, in, second.Text, "second occurrence is not a definition line")
	assert.Equal(t, []string{"1"}, second.Unresolved)

	first := Resolve(in, FirstLineMarker)
	assert.Equal(t, "\nĐiều 1. Nội dung[Ghi chú đầu trang]", first.Text)
	assert.Empty(t, first.Unresolved)
}

func TestResolve_FirstLineMarkerSkipsDefinitionBlocks(t *testing.T) {
	in := "Mở đầu\n[2] Xem thêm[1].\n\nĐiều 1. A[1] B[2]\n\n[1] Chú thích một."
	res := Resolve(in, FirstLineMarker)
	require.Empty(t, res.Unresolved)
	assert.Equal(t, "Mở đầu\n\nĐiều 1. A[Chú thích một] B[Xem thêm[1]]\n", res.Text)
}

func TestResolve_ReferenceInsideDefinitionIsDropped(t *testing.T) {
	in := "Điều 1[1]\n[1] Xem[2]\n[2] Lồng nhau."
	res := Resolve(in, SecondOccurrence)
	assert.Equal(t, "Điều 1[Xem[2]]\n[2] Lồng nhau.", res.Text)
	assert.Equal(t, []string{"2"}, res.Unresolved)
}

func TestResolve_RoundTrip(t *testing.T) {
	defs := map[string]string{
		"1": "Luật số 45/2019/QH14",
		"2": "Nghị định số 15/2020/NĐ-CP",
		"3": "Thông tư số 01/2021/TT-BTC",
	}
	in := "Điều 1. A[1]\nĐiều 2. B[2]\nĐiều 3. C[3]\n\n[1] " + defs["1"] + ".\n[2] " + defs["2"] + "\n[3] " + defs["3"] + "."

	for _, policy := range []Policy{SecondOccurrence, FirstLineMarker} {
		res := Resolve(in, policy)
		for n, body := range defs {
			assert.Contains(t, res.Text, "["+body+"]", policy.String())
			assert.Equal(t, body, res.Table[n])
		}
		for _, line := range strings.Split(res.Text, "\n") {
			assert.NotRegexp(t, `^\s*\[\d+\]`, line)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, SecondOccurrence, p)

	p, err = ParsePolicy("First-Line-Marker")
	require.NoError(t, err)
	assert.Equal(t, FirstLineMarker, p)

	_, err = ParsePolicy("third")
	assert.Error(t, err)
}
