package document

import (
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/constants"
)

const gamesPage = `<!DOCTYPE html>
<html>
<head>
	<link rel="stylesheet" href="./css/games.css">
	<link rel="icon" href="./favicon.ico">
	<link rel="stylesheet" href="./css/table.css">
	<script type="module" src="./js/page/games.mjs"></script>
	<script src="./js/legacy.js"></script>
	<script type="module">console.log("inline")</script>
</head>
<body class="games" data-layout="wide">
	<h1>Games</h1>
	<section data-role="staff"><button id="edit">Edit</button></section>
	<section data-role="player"><p id="signup">Sign up</p></section>
	<div data-role="none"><p id="login">Log in</p></div>
</body>
</html>`

func TestParse(t *testing.T) {
	doc, err := ParseString(gamesPage)
	require.NoError(t, err)

	assert.NotNil(t, doc.Head)
	assert.NotNil(t, doc.Body)

	t.Run("module scripts in order", func(t *testing.T) {
		assert.Equal(t, []string{"./js/page/games.mjs", ""}, doc.ModuleScripts())
	})

	t.Run("only stylesheet links", func(t *testing.T) {
		styles := doc.Stylesheets()
		require.Len(t, styles, 2)
		assert.Equal(t, "./css/games.css", htmlquery.SelectAttr(styles[0], "href"))
		assert.Equal(t, "./css/table.css", htmlquery.SelectAttr(styles[1], "href"))
	})

	t.Run("body attributes", func(t *testing.T) {
		attrs := doc.BodyAttributes()
		require.Len(t, attrs, 2)
		assert.Equal(t, "class", attrs[0].Key)
		assert.Equal(t, "games", attrs[0].Val)
		assert.Equal(t, "data-layout", attrs[1].Key)
	})
}

func TestParseMinimal(t *testing.T) {
	doc, err := ParseString("<p>bare fragment</p>")
	require.NoError(t, err)

	assert.Empty(t, doc.ModuleScripts())
	assert.Empty(t, doc.Stylesheets())
	content := doc.TakeContent()
	require.Len(t, content, 1)
	assert.Equal(t, "p", content[0].Data)
}

func TestStripRoles(t *testing.T) {
	cases := []struct {
		role    constants.Role
		keep    string
		removed int
	}{
		{constants.RoleNone, "login", 2},
		{constants.RolePlayer, "signup", 2},
		{constants.RoleStaff, "edit", 2},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			doc, err := ParseString(gamesPage)
			require.NoError(t, err)

			assert.Equal(t, tc.removed, doc.StripRoles(tc.role))

			for _, id := range []string{"login", "signup", "edit"} {
				found := htmlquery.FindOne(doc.Root, "//*[@id='"+id+"']") != nil
				assert.Equal(t, id == tc.keep, found, "element #%s", id)
			}
			assert.NotNil(t, htmlquery.FindOne(doc.Root, "//h1"), "unmarked content must survive")
		})
	}
}

func TestStripRolesNested(t *testing.T) {
	doc, err := ParseString(`<body>
		<div data-role="staff"><span data-role="player">inner</span></div>
		<span data-role="player">outer</span>
	</body>`)
	require.NoError(t, err)

	assert.Equal(t, 1, doc.StripRoles(constants.RolePlayer))

	spans := htmlquery.Find(doc.Root, "//span")
	require.Len(t, spans, 1)
	assert.Equal(t, "outer", htmlquery.InnerText(spans[0]))
}

func TestStripRolesCountsOutermost(t *testing.T) {
	doc, err := ParseString(`<body><div data-role="staff"><p data-role="staff">a</p><p data-role="player">b</p></div><p>c</p></body>`)
	require.NoError(t, err)

	assert.Equal(t, 1, doc.StripRoles(constants.RoleNone))
	assert.Nil(t, htmlquery.FindOne(doc.Root, "//div"))
	assert.Len(t, htmlquery.Find(doc.Root, "//p"), 1)
}

func TestTakeContent(t *testing.T) {
	doc, err := ParseString(gamesPage)
	require.NoError(t, err)

	content := doc.TakeContent()

	assert.NotEmpty(t, content)
	assert.Nil(t, doc.Body.FirstChild, "body must be empty after extraction")
	for _, n := range content {
		assert.Nil(t, n.Parent)
	}
}

func TestDetach(t *testing.T) {
	doc, err := ParseString(gamesPage)
	require.NoError(t, err)

	styles := doc.Stylesheets()
	Detach(styles[0])
	Detach(styles[0])

	assert.Nil(t, styles[0].Parent)
	assert.Len(t, doc.Stylesheets(), 1)
}
