package echoapi_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thinkmate/thinkmate/core/country"
)

func fPtr(f float64) *float64 { return &f }

func Test_countryAPI(t *testing.T) {
	resetApp(t)

	csv := "\ufeffcountry_name,student_id,grade,gender,school,empathy_score,overall_cr,social_cr\n" +
		"Korea,K1,9,F,S1,3,2,NaN\n" +
		"Korea,K2,10,M,S1,4,,2\n" +
		"Finland,F1,9,F,S9,2,1,1\n" +
		",X1,9,F,S9,2,1,1\n"
	imported, skipped, err := countrySvc.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 3, imported)
	require.Equal(t, 1, skipped)

	k1 := country.Row{Country: "Korea", StudentID: "K1", Grade: "9", Gender: "F", School: "S1", AveEmp: fPtr(3), AveCr: fPtr(2)}
	k2 := country.Row{Country: "Korea", StudentID: "K2", Grade: "10", Gender: "M", School: "S1", AveEmp: fPtr(4), AveCrSocial: fPtr(2)}

	runHTTPTests(t, []httpTest{
		{
			name: "country required", path: "/v1/countries",
			wantCode: http.StatusBadRequest, wantData: []byte(`{"country":"country required"}`),
		},
		{name: "rows of a country", path: "/v1/countries?country=%20Korea", wantData: marchallList(t, k1, k2)},
		{name: "unknown country", path: "/v1/countries?country=Atlantis", wantData: marchallList(t)},
		{
			name: "summaries", path: "/v1/countries/summaries",
			wantData: marchallList(t,
				country.Summary{Country: "Finland", Students: 1, AveEmp: fPtr(2), AveCr: fPtr(1), AveCrSocial: fPtr(1)},
				country.Summary{Country: "Korea", Students: 2, AveEmp: fPtr(3.5), AveCr: fPtr(2), AveCrSocial: fPtr(2)},
			),
		},
	})
}
