package server

// indexPage is the single-page playground served at the root path. It posts
// workflow markup to the compile endpoint and renders the resulting SQL.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>QueryWeave</title>
  <style>
    body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; color: #1f2430; }
    textarea { width: 100%; height: 18rem; font-family: ui-monospace, monospace; font-size: 0.85rem; }
    pre { background: #f4f5f7; padding: 1rem; overflow-x: auto; white-space: pre-wrap; }
    button { padding: 0.5rem 1.25rem; font-size: 1rem; cursor: pointer; }
    .error { color: #b02a37; }
  </style>
</head>
<body>
  <h1>QueryWeave</h1>
  <p>Paste workflow markup below and compile it into a single SQL statement.</p>
  <textarea id="workflow" placeholder="&lt;Workflow&gt;...&lt;/Workflow&gt;"></textarea>
  <p><button id="compile">Compile</button></p>
  <pre id="output" hidden></pre>
  <script>
    const output = document.getElementById("output");
    document.getElementById("compile").addEventListener("click", async () => {
      output.hidden = false;
      output.classList.remove("error");
      output.textContent = "Compiling...";
      try {
        const res = await fetch("/api/v0/compile", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ workflow: document.getElementById("workflow").value }),
        });
        const body = await res.json();
        if (!res.ok) {
          output.classList.add("error");
          output.textContent = body.code + ": " + body.message + (body.details ? "\n" + body.details : "");
          return;
        }
        output.textContent = body.query;
      } catch (err) {
        output.classList.add("error");
        output.textContent = "request failed: " + err;
      }
    });
  </script>
</body>
</html>
`
