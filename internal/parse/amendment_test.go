package parse

import "testing"

const sampleChangesTable = `<html><body><table><tbody>
<tr>
<td>Sample Act 2020</td>
<td><a href="/id/ukpga/2020/1">2020&nbsp;1</a></td>
<td><a href="/id/ukpga/2020/1/section/5">s. 5</a></td>
<td>inserted</td>
<td>Amending Act 2021</td>
<td><a href="/id/ukpga/2021/2">2021&nbsp;2</a></td>
<td><a href="/id/ukpga/2021/2/section/9">s. 9</a></td>
</tr>
</tbody></table></body></html>`

func TestParseAmendmentsExtractsRow(t *testing.T) {
	amendments, err := ParseAmendments([]byte(sampleChangesTable))
	if err != nil {
		t.Fatalf("ParseAmendments: %v", err)
	}
	if len(amendments) != 1 {
		t.Fatalf("expected 1 amendment, got %d", len(amendments))
	}
	a := amendments[0]
	if a.ChangedLegislation != "Sample Act 2020" {
		t.Fatalf("unexpected changed_legislation %q", a.ChangedLegislation)
	}
	if a.ChangedYear != 2020 || a.ChangedNumber != "1" {
		t.Fatalf("unexpected changed year/number: %d/%s", a.ChangedYear, a.ChangedNumber)
	}
	if a.AffectingYear != 2021 || a.AffectingNumber != "2" {
		t.Fatalf("unexpected affecting year/number: %d/%s", a.AffectingYear, a.AffectingNumber)
	}
	if a.TypeOfEffect != "inserted" {
		t.Fatalf("unexpected type_of_effect %q", a.TypeOfEffect)
	}
	wantID := "changed-http://www.legislation.gov.uk/id/ukpga/2020/1-affecting-http://www.legislation.gov.uk/id/ukpga/2021/2"
	if a.ID != wantID {
		t.Fatalf("unexpected amendment id: got %q want %q", a.ID, wantID)
	}
}

const changesTableMissingChangedHref = `<html><body><table><tbody>
<tr>
<td>Sample Act 2020</td>
<td>2020 1</td>
<td><a href="/id/ukpga/2020/1/section/5">s. 5</a></td>
<td>inserted</td>
<td>Amending Act 2021</td>
<td><a href="/id/ukpga/2021/2">2021 2</a></td>
<td><a href="/id/ukpga/2021/2/section/9">s. 9</a></td>
</tr>
</tbody></table></body></html>`

const changesTableMissingAffectingHref = `<html><body><table><tbody>
<tr>
<td>Sample Act 2020</td>
<td><a href="/id/ukpga/2020/1">2020 1</a></td>
<td><a href="/id/ukpga/2020/1/section/5">s. 5</a></td>
<td>inserted</td>
<td>Amending Act 2021</td>
<td>2021 2</td>
<td><a href="/id/ukpga/2021/2/section/9">s. 9</a></td>
</tr>
</tbody></table></body></html>`

func TestParseAmendmentsSkipsRowMissingChangedHref(t *testing.T) {
	amendments, err := ParseAmendments([]byte(changesTableMissingChangedHref))
	if err != nil {
		t.Fatalf("ParseAmendments: %v", err)
	}
	if len(amendments) != 0 {
		t.Fatalf("expected row with missing changed href to be skipped, got %d amendments", len(amendments))
	}
}

func TestParseAmendmentsSkipsRowMissingAffectingHref(t *testing.T) {
	amendments, err := ParseAmendments([]byte(changesTableMissingAffectingHref))
	if err != nil {
		t.Fatalf("ParseAmendments: %v", err)
	}
	if len(amendments) != 0 {
		t.Fatalf("expected row with missing affecting href to be skipped, got %d amendments", len(amendments))
	}
}

func TestParseAmendmentsNoTableReturnsEmpty(t *testing.T) {
	amendments, err := ParseAmendments([]byte(`<html><body>no table here</body></html>`))
	if err != nil {
		t.Fatalf("ParseAmendments: %v", err)
	}
	if len(amendments) != 0 {
		t.Fatalf("expected no amendments, got %d", len(amendments))
	}
}
