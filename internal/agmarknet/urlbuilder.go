package agmarknet

import (
	"fmt"
	"strings"
)

const searchURL = "https://agmarknet.gov.in/SearchCmmMkt.aspx"

// BuildURL assembles the Agmarknet price-search URL for a whole state
// (district and market left unselected). Dates use the DD-Mon-YYYY layout
// the site expects.
func BuildURL(commodityID, stateID, commodityName, stateName, startDate, endDate string) string {
	return fmt.Sprintf(
		"%s?Tx_Commodity=%s&Tx_State=%s&Tx_District=0&Tx_Market=0"+
			"&DateFrom=%s&DateTo=%s&Fr_Date=%s&To_Date=%s"+
			"&Tx_Trend=0&Tx_CommodityHead=%s&Tx_StateHead=%s"+
			"&Tx_DistrictHead=--Select--&Tx_MarketHead=--Select--",
		searchURL, commodityID, stateID,
		startDate, endDate, startDate, endDate,
		commodityName, strings.ReplaceAll(stateName, " ", "+"),
	)
}
