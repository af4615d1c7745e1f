package builtin_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/compiler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler/builtin"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/widget"
)

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

func TestHandlers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "disable rewrites the event callback",
			src:  `<P><ElevatedButton onPressed="save" :disable="busy"/></P>`,
			want: lines(
				"ElevatedButton(",
				"  onPressed: busy ? null : save,",
				")",
			),
		},
		{
			name: "disable reaches a gesture callback",
			src:  `<P><Text :onTap="go()" :disable="busy">x</Text></P>`,
			want: lines(
				"GestureDetector(",
				"  onTap: busy ? null : go(),",
				"  child: Text(",
				"    'x',",
				"  ),",
				")",
			),
		},
		{
			name: "child builder",
			src:  `<P><Column :childBuilder="item of items"><Text>{{item}}</Text></Column></P>`,
			want: lines(
				"Column(",
				"  children: [",
				"    ...List<Widget>.generate(items.length, (int index) {",
				"      final item = items[index];",
				"      return Text(",
				"        item,",
				"      );",
				"    }),",
				"  ],",
				")",
			),
		},
		{
			name: "builder element with data",
			src: `<P><ListView.builder>
  <builder name="itemBuilder" data="row of rows">
    <Text>{{row}}</Text>
  </builder>
</ListView.builder></P>`,
			want: lines(
				"ListView.builder(",
				"  itemCount: rows.length,",
				"  itemBuilder: (BuildContext context, int index) {",
				"    final row = rows[index];",
				"    return Text(",
				"      row,",
				"    );",
				"  },",
				")",
			),
		},
		{
			name: "gesture group",
			src:  `<P><Text :onTap="onOpen" :onLongPress="onHold">a</Text></P>`,
			want: lines(
				"GestureDetector(",
				"  onLongPress: onHold,",
				"  onTap: onOpen,",
				"  child: Text(",
				"    'a',",
				"  ),",
				")",
			),
		},
		{
			name: "form control with a value stream",
			src:  `<P><Checkbox :formControl="agree"/></P>`,
			want: lines(
				"StreamBuilder(",
				"  initialData: _formControls.agree.value,",
				"  stream: _formControls.agree,",
				"  builder: (BuildContext context, formControlsAgreeSnapshot) {",
				"    final formControlsAgreeValue = formControlsAgreeSnapshot.data;",
				"    return Checkbox(",
				"      onChanged: (value) => _formControls.agree.setValue(value),",
				"      value: formControlsAgreeValue,",
				"    );",
				"  },",
				")",
			),
		},
		{
			name: "text child wrapper",
			src:  `<P><ElevatedButton :text="'Save'"/></P>`,
			want: lines(
				"ElevatedButton(",
				"  child: Text(",
				"    'Save',",
				"  ),",
				")",
			),
		},
		{
			name: "animation",
			src:  `<P><Text :animation="ctrl">a</Text></P>`,
			want: lines(
				"AnimatedBuilder(",
				"  animation: ctrl,",
				"  builder: (BuildContext context, Widget? child) {",
				"    return Text(",
				"      'a',",
				"    );",
				"  },",
				")",
			),
		},
		{
			name: "reactive condition wraps a scalar chain",
			src: `<P><Container>
  <if value="loggedIn | stream"><Text>in</Text></if>
</Container></P>`,
			want: lines(
				"Container(",
				"  child: StreamBuilder(",
				"    stream: loggedIn,",
				"    builder: (BuildContext context, loggedInSnapshot) {",
				"      final loggedInValue = loggedInSnapshot.data;",
				"      if (loggedInValue == null) {",
				"        return Container(width: 0, height: 0);",
				"      }",
				"      return Builder(",
				"        builder: (BuildContext context) {",
				"          if (loggedInValue) {",
				"            return Text(",
				"              'in',",
				"            );",
				"          }",
				"          return Container(width: 0, height: 0);",
				"        },",
				"      );",
				"    },",
				"  ),",
				")",
			),
		},
		{
			name: "conditional spreading several children",
			src: `<P><Column>
  <if value="a"><Text>1</Text><Text>2</Text></if>
  <else><Icon/></else>
</Column></P>`,
			want: lines(
				"Column(",
				"  children: [",
				"    ...(() {",
				"      if (a) {",
				"        return <Widget>[",
				"          Text(",
				"            '1',",
				"          ),",
				"          Text(",
				"            '2',",
				"          ),",
				"        ];",
				"      }",
				"      return <Widget>[",
				"        Icon(),",
				"      ];",
				"    })(),",
				"  ],",
				")",
			),
		},
	}

	c := compiler.New(compiler.Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.Compile("", tt.src)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, out.Code); diff != "" {
				t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChildWrapper_KeepsPropertyElementChild(t *testing.T) {
	src := `<P><Container :padding="4"><child key="k"><Text>a</Text></child></Container></P>`
	out, err := compiler.New(compiler.Options{}).Compile("", src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	padding := strings.Index(out.Code, "Padding(")
	text := strings.Index(out.Code, "'a'")
	if padding < 0 || text < padding {
		t.Errorf("the Text should stay inside the Padding:\n%s", out.Code)
	}
}

func TestController(t *testing.T) {
	out, err := compiler.New(compiler.Options{}).Compile("", `<P><TextField :controller="nameCtrl"/></P>`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	want := []widget.Controller{{Name: "nameCtrl", Type: "TextEditingController", Initializer: "TextEditingController()"}}
	if diff := cmp.Diff(want, out.Controllers); diff != "" {
		t.Errorf("Controllers mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.Code, "controller: nameCtrl,") {
		t.Errorf("code should pass the controller:\n%s", out.Code)
	}
}

func TestDefaults_RegistersEveryBuiltin(t *testing.T) {
	reg := builtin.Defaults()
	for _, name := range []string{
		":opacity", ":margin", ":padding", ":text", ":icon", ":width", ":height", ":align",
		":center", ":topLeft", ":flex", ":visible", ":hero", ":aspectRatio", ":onTap",
		":onDoubleTap", ":onLongPress", ":animation", ":disable", ":formControl",
		":controller", ":if", ":repeat", ":childBuilder", ":itemBuilder", "if", "elseIf",
		"else", "builder",
	} {
		if _, ok := reg.Get(name); !ok {
			t.Errorf("%s is not registered", name)
		}
	}
}
