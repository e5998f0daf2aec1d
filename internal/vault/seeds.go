package vault

import "github.com/rebeccawang123/twincity/internal/models"

// projectAccounts are the bundled identities with verified registration
// hashes and agent ids. They are reapplied on every initialization and always
// win over a same-email session record.
var projectAccounts = []models.Identity{
	{
		ID:          "test@example.com-1770489823651",
		Address:     "0xF0776070818b74364196BA60c06c2b0F90b4C3C9",
		PrivateKey:  "0xa01fbef45a2d33021eef99e7c0598136c18880a5f9d35180a6596f49b73f8747",
		Email:       "test@example.com",
		Description: "This is just a testing agent.",
		Timestamp:   "2026-02-07T18:43:43.651Z",
		Network:     "Base Sepolia",
		AgentID:     2377,
	},
	{
		ID:          "feedback@example.com-1770535327154",
		Address:     "0x54E91D9f2349b58dc0FC2Fe91362Ddc1B36FEE27",
		PrivateKey:  "0xcbdff9ec440a647c7a40dedf87674f72c601badc5513d1608009d04c949207cb",
		Email:       "feedback@example.com",
		Description: "This is a feedback account.",
		Timestamp:   "2026-02-08T07:22:07.154Z",
		Network:     "Base Sepolia",
		AgentID:     2379,
	},
	{
		ID:          "landlord@gmail.com-1770636305133",
		Address:     "0xccf45191a79A11622fc260AB03143C6275D2d249",
		PrivateKey:  "0xafa81498c73923a66a3756b88c00838a26ec46dfd27671afaba03cf30e0a1598",
		Email:       "alex.landlord@gmail.com",
		Description: "landlord alex",
		Timestamp:   "2026-02-09T11:25:05.133Z",
		Network:     "Base Sepolia",
		AgentID:     2438,
	},
	{
		ID:          "merchant@gmail.com-1770636426526",
		Address:     "0x7e26728E8ea9e72D98CfDc17Ad8aA12Cf08a8725",
		PrivateKey:  "0xa2d9bac90b63645a011da10e0ae08e76bf8067ced93aeebf29aca7ec86968f7f",
		Email:       "maria.merchant@gmail.com",
		Description: "merchant maria",
		Timestamp:   "2026-02-09T11:27:06.526Z",
		Network:     "Base Sepolia",
		AgentID:     2439,
	},
	{
		ID:          "tenant@gmail.com-1770636484409",
		Address:     "0x4396432B088e541FC5A3EE7A1B6FdC30507b9247",
		PrivateKey:  "0xb5b3ebd7de073bd72912df01f71982ec964ac396174ba39901b0789f4af52e11",
		Email:       "tom.tenant@gmail.com",
		Description: "tenant tom",
		Timestamp:   "2026-02-09T11:28:04.409Z",
		Network:     "Base Sepolia",
		AgentID:     2440,
	},
	{
		ID:          "safety.sentinel@gmail.com-1770636548178",
		Address:     "0x7eaBd2e6dfc68119C7577a0EfeE225E7FD148e33",
		PrivateKey:  "0xefddacd6e8b861a27dc4d7e81f7e02b0e76f3996b26ccc5cd6771674383b1afd",
		Email:       "safety.sentinel@gmail.com",
		Description: "safety agent",
		Timestamp:   "2026-02-09T11:29:08.178Z",
		Network:     "Base Sepolia",
		AgentID:     2441,
	},
	{
		ID:          "settle.mediator@gmail.com-1770636620686",
		Address:     "0x2C7fA0FCEB8877c8B00d8fa72e37eA831082ecD5",
		PrivateKey:  "0x44f4f085f304a8e0ffbf9c7eac4b795e2fe8ba3c1c07cd00922acff4fb73cdd9",
		Email:       "settle.mediator@gmail.com",
		Description: "settle agent",
		Timestamp:   "2026-02-09T11:30:20.686Z",
		Network:     "Base Sepolia",
		AgentID:     2442,
	},
}
